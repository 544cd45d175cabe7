package core

import (
	"context"
	"sync"
	"time"

	"bottemplate/internal/command"

	"github.com/bwmarrin/discordgo"
)

// pendingTTL bounds how long an unanswered confirmation prompt stays
// actionable; stale tokens are pruned whenever a new prompt is issued.
const pendingTTL = 5 * time.Minute

type pendingWipe struct {
	guildID   string
	expiresAt time.Time
}

// WipeHistory clears a guild's command history after an explicit button
// confirmation. The destructive step runs in the confirmation listener, not
// here; Run only parks a pending token.
type WipeHistory struct {
	mu      sync.Mutex
	pending map[string]pendingWipe
	now     func() time.Time
}

func NewWipeHistory() *WipeHistory {
	return &WipeHistory{
		pending: make(map[string]pendingWipe),
		now:     time.Now,
	}
}

func (c *WipeHistory) Name() string        { return "wipe-history" }
func (c *WipeHistory) Description() string { return "Erase this server's command history." }

func (c *WipeHistory) Group() string              { return "Moderation" }
func (c *WipeHistory) Category() command.Category { return command.CategoryPrivate }

func (c *WipeHistory) UserPermissions() int64 { return discordgo.PermissionAdministrator }
func (c *WipeHistory) BotPermissions() int64  { return 0 }

func (c *WipeHistory) Cooldown() time.Duration { return 10 * time.Second }

func (c *WipeHistory) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *WipeHistory) Run(_ context.Context, inv *command.Invocation) error {
	token := command.NewConfirmationToken()
	c.park(token, inv.Event.GuildID)

	embed := &discordgo.MessageEmbed{
		Description: "⚠️ This erases the entire command history for this server. Are you sure?",
		Color:       command.EmbedColor,
	}
	return command.RespondEmbed(inv.Session, inv.Event, embed,
		[]discordgo.MessageComponent{command.ConfirmationRow(token)})
}

// park stores a fresh token and sweeps out any prompts nobody answered.
func (c *WipeHistory) park(token, guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for t, p := range c.pending {
		if !now.Before(p.expiresAt) {
			delete(c.pending, t)
		}
	}
	c.pending[token] = pendingWipe{guildID: guildID, expiresAt: now.Add(pendingTTL)}
}

// Resolve consumes a pending confirmation token and returns the guild it was
// issued for. Unknown or expired tokens miss.
func (c *WipeHistory) Resolve(token string) (guildID string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[token]
	if !ok {
		return "", false
	}
	delete(c.pending, token)
	if !c.now().Before(p.expiresAt) {
		return "", false
	}
	return p.guildID, true
}
