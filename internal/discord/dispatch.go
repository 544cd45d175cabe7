package discord

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"bottemplate/internal/command"
	"bottemplate/internal/cooldown"
	"bottemplate/internal/paginator"
	"bottemplate/internal/permissions"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// onInteractionCreate is the terminal boundary: no error or panic raised
// while handling an interaction escapes to the process.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic while dispatching interaction")
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.dispatchAutocomplete(s, i)
	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(s, i)
	default:
		b.replyEphemeral(s, i, notice("This interaction is not implemented."))
	}
}

// --- Command invocations ---

type denialKind int

const (
	denialNone denialKind = iota
	denialCooldown
	denialUserPerms
	denialBotPerms
)

type denial struct {
	kind      denialKind
	remaining time.Duration
	missing   []string
}

// commandGates runs the dispatch gates in their fixed order: cooldown first,
// then the user's permissions, then the bot's own. A user on cooldown is
// told about the cooldown even when they also lack permissions.
func commandGates(
	cooldowns *cooldown.Tracker,
	evaluator *permissions.Evaluator,
	defaultCooldown time.Duration,
	c command.Command,
	userID, botID, guildID, channelID string,
) denial {
	if remaining := cooldowns.CheckAndArm(c.Name(), userID, command.CooldownOf(c, defaultCooldown)); remaining > 0 {
		return denial{kind: denialCooldown, remaining: remaining}
	}

	if res := evaluator.Evaluate(userID, guildID, channelID, command.UserPermissionsOf(c)); !res.Allowed {
		return denial{kind: denialUserPerms, missing: res.Missing}
	}

	if res := evaluator.Evaluate(botID, guildID, channelID, command.BotPermissionsOf(c)); !res.Allowed {
		return denial{kind: denialBotPerms, missing: res.Missing}
	}

	return denial{kind: denialNone}
}

func (b *Bot) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	c, ok := b.registry.Get(name)
	if !ok {
		log.Warn().Str("command", name).Msg("unknown command invoked")
		b.replyEphemeral(s, i, notice("Unknown command."))
		return
	}

	inv := b.invocation(s, i)
	userID := inv.User().ID

	den := commandGates(b.cooldowns, b.evaluator, b.cfg.DefaultCooldown, c, userID, s.State.User.ID, i.GuildID, i.ChannelID)
	switch den.kind {
	case denialCooldown:
		b.replyEphemeral(s, i, notice(fmt.Sprintf("⏳ You're on cooldown. Try again in %.1fs.", den.remaining.Seconds())))
		return
	case denialUserPerms:
		b.replyEphemeral(s, i, missingPermsNotice("You need the following permissions to run this command:", den.missing))
		return
	case denialBotPerms:
		b.replyEphemeral(s, i, missingPermsNotice("I'm missing the following permissions in this channel:", den.missing))
		return
	}

	if err := runHandler(b.ctx, c, inv); err != nil {
		log.Error().Err(err).Str("command", name).Str("user", userID).Msg("command handler failed")
		b.replyEphemeral(s, i, notice("There was an error while executing this command."))
	}
}

// runHandler executes a command body, converting panics into errors so the
// full detail stays server-side.
func runHandler(ctx context.Context, c command.Command, inv *command.Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v\n%s", r, debug.Stack())
		}
	}()
	return c.Run(ctx, inv)
}

// --- Autocomplete ---

func (b *Bot) dispatchAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	c, ok := b.registry.Get(i.ApplicationCommandData().Name)
	if !ok {
		return
	}
	h, ok := c.(command.AutocompleteHandler)
	if !ok {
		return
	}
	if err := h.Autocomplete(b.ctx, b.invocation(s, i)); err != nil {
		log.Warn().Err(err).Str("command", c.Name()).Msg("autocomplete failed")
	}
}

// --- Components ---

func (b *Bot) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case isNavButton(customID):
		b.handleNavButton(s, i, customID)
	case strings.HasPrefix(customID, command.ConfirmAcceptPrefix):
		b.handleConfirmation(s, i, true, strings.TrimPrefix(customID, command.ConfirmAcceptPrefix))
	case strings.HasPrefix(customID, command.ConfirmRejectPrefix):
		b.handleConfirmation(s, i, false, strings.TrimPrefix(customID, command.ConfirmRejectPrefix))
	default:
		// Route to the owning command by custom ID prefix.
		for _, c := range b.registry.All() {
			if !strings.HasPrefix(customID, c.Name()+"_") {
				continue
			}
			if h, ok := c.(command.ComponentHandler); ok {
				if err := h.Component(b.ctx, b.invocation(s, i)); err != nil {
					log.Error().Err(err).Str("command", c.Name()).Msg("component handler failed")
					b.replyEphemeral(s, i, notice("There was an error while handling this interaction."))
				}
				return
			}
		}
		b.replyEphemeral(s, i, notice("This interaction is not implemented."))
	}
}

func isNavButton(customID string) bool {
	switch customID {
	case paginator.CustomIDFirst, paginator.CustomIDPrev, paginator.CustomIDNext, paginator.CustomIDLast:
		return true
	}
	return false
}

// navTarget computes the candidate page for a navigation action, clamped
// into [0, total-1].
func navTarget(customID string, cur, total int) int {
	target := cur
	switch customID {
	case paginator.CustomIDFirst:
		target = 0
	case paginator.CustomIDPrev:
		target = cur - 1
	case paginator.CustomIDNext:
		target = cur + 1
	case paginator.CustomIDLast:
		target = total - 1
	}
	if target < 0 {
		target = 0
	}
	if target > total-1 {
		target = total - 1
	}
	return target
}

// currentPageFromMessage recovers the page position from the rendered
// indicator button's "current/total" label.
func currentPageFromMessage(msg *discordgo.Message) (page, total int, err error) {
	if msg == nil {
		return 0, 0, fmt.Errorf("no message attached to interaction")
	}
	for _, comp := range msg.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			btn, ok := inner.(*discordgo.Button)
			if !ok || btn.CustomID != paginator.CustomIDIndicator {
				continue
			}
			return paginator.ParsePageLabel(btn.Label)
		}
	}
	return 0, 0, fmt.Errorf("no page indicator found on message")
}

func (b *Bot) handleNavButton(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	cur, total, err := currentPageFromMessage(i.Message)
	if err != nil {
		// The rendered row is gone or malformed; same degraded path as a
		// registry miss.
		log.Warn().Err(err).Str("message", messageID(i)).Msg("failed to read page indicator")
		b.acknowledge(s, i)
		b.applyPaginationUpdate(s, i, 0)
		return
	}

	target := navTarget(customID, cur, total)
	if target == cur {
		b.acknowledge(s, i)
		return
	}

	// Acknowledge here, mutate separately, so the same interaction is never
	// acknowledged twice.
	b.acknowledge(s, i)
	PublishSystemEvent(SystemEvent{
		Type:      SystemEventPaginationUpdate,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		MessageID: messageID(i),
		UserID:    b.invocation(s, i).User().ID,
		OldPage:   cur,
		NewPage:   target,
	})
	b.applyPaginationUpdate(s, i, target)
}

// paginationEdit computes the replacement payload for a navigation action:
// either the freshly rendered target page, or an expired notice with every
// control stripped when the registry no longer knows the message.
func (b *Bot) paginationEdit(msgID string, target int) (*discordgo.MessageEmbed, []discordgo.MessageComponent, bool) {
	p, ok := b.paginators.Get(msgID)
	if !ok {
		return notice("This list has expired. Run the command again."), []discordgo.MessageComponent{}, true
	}
	r := p.Page(target)
	return r.Embed, r.Components, false
}

func (b *Bot) applyPaginationUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, target int) {
	msgID := messageID(i)
	embed, comps, expired := b.paginationEdit(msgID, target)
	if expired {
		log.Debug().Str("message", msgID).Msg("pagination lookup missed, rendering expired notice")
	}
	if err := command.EditMessageEmbed(s, i.ChannelID, msgID, embed, comps); err != nil {
		log.Error().Err(err).Str("message", msgID).Msg("failed to edit paginated message")
	}
}

// --- Confirmations ---

func (b *Bot) handleConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, accepted bool, token string) {
	text := "❌ Cancelled."
	evtType := SystemEventConfirmationRejected
	if accepted {
		text = "✅ Confirmed."
		evtType = SystemEventConfirmationAccepted
	}

	if err := command.RespondUpdate(s, i, notice(text), []discordgo.MessageComponent{}); err != nil {
		log.Warn().Err(err).Msg("failed to acknowledge confirmation, retrying as edit")
		if err := command.EditMessageEmbed(s, i.ChannelID, messageID(i), notice(text), []discordgo.MessageComponent{}); err != nil {
			log.Error().Err(err).Msg("failed to finalize confirmation message")
		}
	}

	PublishSystemEvent(SystemEvent{
		Type:      evtType,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		MessageID: messageID(i),
		UserID:    b.invocation(s, i).User().ID,
		Token:     token,
	})
}

// --- Reply plumbing ---

// replyEphemeral sends an ephemeral embed reply. On failure it retries once
// as a followup with the ephemeral flag stripped (an already-acknowledged
// interaction rejects a second response); a second failure is swallowed.
func (b *Bot) replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if err := command.RespondEmbedEphemeral(s, i, embed); err != nil {
		log.Warn().Err(err).Msg("failed to respond, retrying as followup")
		if err := command.FollowupEmbed(s, i, embed, false); err != nil {
			log.Error().Err(err).Msg("failed to send followup reply")
		}
	}
}

func (b *Bot) acknowledge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := command.RespondDeferredUpdate(s, i); err != nil {
		log.Warn().Err(err).Msg("failed to acknowledge component interaction")
	}
}

func notice(text string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Description: text, Color: command.EmbedColor}
}

func missingPermsNotice(lead string, missing []string) *discordgo.MessageEmbed {
	if len(missing) == 0 {
		return notice(lead)
	}
	return notice(fmt.Sprintf("%s\n`%s`", lead, strings.Join(missing, "`, `")))
}

func messageID(i *discordgo.InteractionCreate) string {
	if i.Message != nil {
		return i.Message.ID
	}
	return ""
}
