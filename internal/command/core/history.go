package core

import (
	"context"
	"fmt"

	"bottemplate/internal/command"
	"bottemplate/internal/paginator"
	"bottemplate/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// History shows the guild's logged command executions, newest first.
type History struct{}

func (c *History) Name() string        { return "history" }
func (c *History) Description() string { return "Show recently executed commands in this server." }

func (c *History) Group() string              { return "Moderation" }
func (c *History) Category() command.Category { return command.CategoryPublic }

func (c *History) UserPermissions() int64 { return discordgo.PermissionManageServer }
func (c *History) BotPermissions() int64  { return 0 }

func (c *History) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *History) Run(_ context.Context, inv *command.Invocation) error {
	records, err := inv.Store.CommandHistory(inv.Event.GuildID)
	if err != nil {
		return fmt.Errorf("failed to load command history: %w", err)
	}
	if len(records) == 0 {
		return command.RespondEphemeral(inv.Session, inv.Event, "No commands have been logged in this server yet.")
	}

	// Stored oldest first; display newest first.
	reversed := make([]storage.CommandHistoryRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	p := paginator.New(reversed, func(r storage.CommandHistoryRecord) (string, string) {
		return "/" + r.Command, fmt.Sprintf("by **%s** in <#%s>\n%s",
			r.Username, r.ChannelID, r.Datetime.Format("2006-01-02 15:04:05"))
	}, paginator.Options{
		Title:        "🗒 Command History",
		PerPage:      inv.Config.PageSize,
		FooterPrefix: fmt.Sprintf("%d entries", len(reversed)),
		Color:        command.EmbedColor,
	})
	return respondPaged(inv, p)
}
