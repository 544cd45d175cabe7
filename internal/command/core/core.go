// Package core holds the template's built-in commands. Each command is a
// plain struct satisfying the command contract; they share the Invocation's
// injected session, store and pagination registry instead of package state.
package core

import (
	"fmt"

	"bottemplate/internal/command"
	"bottemplate/internal/paginator"
)

// All returns the built-in command set ready for registration.
func All() []command.Command {
	return []command.Command{
		&Ping{},
		&About{},
		&Help{},
		&History{},
		NewWipeHistory(),
	}
}

// respondPaged sends page zero of a pager as the interaction response and
// binds the pager to the resulting message so navigation clicks find it.
func respondPaged(inv *command.Invocation, p paginator.Pager) error {
	r := p.Page(0)
	if err := command.RespondEmbed(inv.Session, inv.Event, r.Embed, r.Components); err != nil {
		return fmt.Errorf("failed to send paged response: %w", err)
	}

	msg, err := inv.Session.InteractionResponse(inv.Event.Interaction)
	if err != nil {
		// The message went out but cannot be tracked; its buttons will hit
		// the expired path.
		return fmt.Errorf("failed to fetch response message: %w", err)
	}
	inv.Paginators.Register(msg.ID, p)
	return nil
}
