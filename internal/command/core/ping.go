package core

import (
	"context"
	"fmt"

	"bottemplate/internal/command"

	"github.com/bwmarrin/discordgo"
)

// Ping reports the gateway heartbeat latency.
type Ping struct{}

func (c *Ping) Name() string        { return "ping" }
func (c *Ping) Description() string { return "Pong! Shows the bot's response time." }

func (c *Ping) Group() string              { return "Information" }
func (c *Ping) Category() command.Category { return command.CategoryPublic }

func (c *Ping) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *Ping) Run(_ context.Context, inv *command.Invocation) error {
	latency := inv.Session.HeartbeatLatency().Milliseconds()
	return command.Respond(inv.Session, inv.Event, fmt.Sprintf("🏓 Pong! Response time: `%dms`", latency))
}
