// Package middleware provides reusable wrappers around command handlers.
package middleware

import (
	"context"
	"time"

	"bottemplate/internal/command"
	"bottemplate/internal/storage"

	"github.com/rs/zerolog/log"
)

// WithGuildOnly rejects invocations arriving outside a guild (DMs) with a
// short ephemeral notice.
func WithGuildOnly() command.Middleware {
	return func(c command.Command) command.Command {
		return command.Wrap(c, func(ctx context.Context, inv *command.Invocation) error {
			if inv.Event.GuildID == "" {
				return command.RespondEphemeral(inv.Session, inv.Event, "This command only works inside a server.")
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithCommandLogger records every execution to the guild's command history
// and emits a structured log line. Recording failures are logged, never
// surfaced to the user.
func WithCommandLogger() command.Middleware {
	return func(c command.Command) command.Command {
		return command.Wrap(c, func(ctx context.Context, inv *command.Invocation) error {
			err := c.Run(ctx, inv)

			user := inv.User()
			log.Info().
				Str("command", c.Name()).
				Str("guild", inv.Event.GuildID).
				Str("user", user.Username).
				Err(err).
				Msg("command executed")

			if inv.Store != nil && inv.Event.GuildID != "" {
				rec := storage.CommandHistoryRecord{
					ChannelID:   inv.Event.ChannelID,
					ChannelName: channelName(inv),
					GuildName:   guildName(inv),
					UserID:      user.ID,
					Username:    user.Username,
					Command:     c.Name(),
					Datetime:    time.Now(),
				}
				if logErr := inv.Store.AppendCommandHistory(inv.Event.GuildID, rec); logErr != nil {
					log.Warn().Err(logErr).Str("command", c.Name()).Msg("failed to record command history")
				}
			}
			return err
		})
	}
}

func channelName(inv *command.Invocation) string {
	if inv.Session == nil || inv.Session.State == nil {
		return ""
	}
	if ch, err := inv.Session.State.Channel(inv.Event.ChannelID); err == nil && ch != nil {
		return ch.Name
	}
	return ""
}

func guildName(inv *command.Invocation) string {
	if inv.Session == nil || inv.Session.State == nil {
		return ""
	}
	if g, err := inv.Session.State.Guild(inv.Event.GuildID); err == nil && g != nil {
		return g.Name
	}
	return ""
}
