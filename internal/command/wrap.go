package command

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Middleware wraps a command (logging, guards, metrics). The wrapped value
// remains a Command.
type Middleware func(Command) Command

// Chain applies middlewares in order; the last in the list is the outermost.
func Chain(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// Unwrappable is implemented by wrapped commands so callers can reach the
// underlying command and its optional capability interfaces.
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped runs a custom RunFunc in place of the inner command's Run while
// delegating identity. The inner command stays reachable via Unwrap.
type Wrapped struct {
	Inner   Command
	RunFunc func(ctx context.Context, inv *Invocation) error
}

func (w *Wrapped) Name() string        { return w.Inner.Name() }
func (w *Wrapped) Description() string { return w.Inner.Description() }

func (w *Wrapped) SlashDefinition() *discordgo.ApplicationCommand {
	return w.Inner.SlashDefinition()
}

// Run runs the wrapper's RunFunc, or the inner command when none is set.
func (w *Wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.RunFunc != nil {
		return w.RunFunc(ctx, inv)
	}
	return w.Inner.Run(ctx, inv)
}

// Autocomplete delegates to the inner command when it handles autocomplete.
func (w *Wrapped) Autocomplete(ctx context.Context, inv *Invocation) error {
	if h, ok := Root(w.Inner).(AutocompleteHandler); ok {
		return h.Autocomplete(ctx, inv)
	}
	return nil
}

// Component delegates to the inner command when it owns components.
func (w *Wrapped) Component(ctx context.Context, inv *Invocation) error {
	if h, ok := Root(w.Inner).(ComponentHandler); ok {
		return h.Component(ctx, inv)
	}
	return nil
}

// Unwrap returns the inner command.
func (w *Wrapped) Unwrap() Command { return w.Inner }

// Wrap returns a command running run instead of c.Run, delegating identity
// to c. The result implements Unwrappable.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &Wrapped{Inner: c, RunFunc: run}
}

// Root unwraps a command until the underlying command is not Unwrappable.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}
