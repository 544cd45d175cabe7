package command

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
	runs int
}

func (c *stubCommand) Name() string        { return c.name }
func (c *stubCommand) Description() string { return "stub" }
func (c *stubCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.name, Description: "stub"}
}
func (c *stubCommand) Run(_ context.Context, _ *Invocation) error {
	c.runs++
	return nil
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	ping := &stubCommand{name: "ping"}
	r.Register(ping, &stubCommand{name: "help"})

	got, ok := r.Get("ping")
	require.True(t, ok)
	assert.Equal(t, ping, got)

	// A miss is side-effect free and repeatable.
	for i := 0; i < 2; i++ {
		_, ok = r.Get("nope")
		assert.False(t, ok)
	}
	assert.Len(t, r.All(), 2)
}

func TestRegistryAllSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubCommand{name: "zeta"}, &stubCommand{name: "alpha"}, &stubCommand{name: "mid"})

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestChainOrderAndRoot(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				order = append(order, tag)
				return c.Run(ctx, inv)
			})
		}
	}

	inner := &stubCommand{name: "ping"}
	wrapped := Chain(inner, mw("inner"), mw("outer"))

	require.NoError(t, wrapped.Run(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, 1, inner.runs)
	assert.Equal(t, inner, Root(wrapped))
	assert.Equal(t, "ping", wrapped.Name())
}

type fancyCommand struct {
	stubCommand
}

func (c *fancyCommand) Cooldown() time.Duration { return 9 * time.Second }
func (c *fancyCommand) UserPermissions() int64  { return discordgo.PermissionAdministrator }
func (c *fancyCommand) BotPermissions() int64   { return discordgo.PermissionSendMessages }
func (c *fancyCommand) Category() Category      { return CategoryPrivate }
func (c *fancyCommand) Group() string           { return "admin" }

func TestMetadataHelpers(t *testing.T) {
	plain := &stubCommand{name: "ping"}
	assert.Equal(t, 3*time.Second, CooldownOf(plain, 3*time.Second))
	assert.Zero(t, UserPermissionsOf(plain))
	assert.Zero(t, BotPermissionsOf(plain))
	assert.Equal(t, CategoryPublic, CategoryOf(plain))
	assert.Empty(t, GroupOf(plain))

	fancy := &fancyCommand{stubCommand{name: "wipe"}}
	// Metadata survives middleware wrapping.
	wrapped := Chain(fancy, func(c Command) Command {
		return Wrap(c, c.Run)
	})
	assert.Equal(t, 9*time.Second, CooldownOf(wrapped, 3*time.Second))
	assert.Equal(t, int64(discordgo.PermissionAdministrator), UserPermissionsOf(wrapped))
	assert.Equal(t, int64(discordgo.PermissionSendMessages), BotPermissionsOf(wrapped))
	assert.Equal(t, CategoryPrivate, CategoryOf(wrapped))
	assert.Equal(t, "admin", GroupOf(wrapped))
}
