package middleware

import (
	"context"
	"path/filepath"
	"testing"

	"bottemplate/internal/command"
	"bottemplate/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCommand struct {
	runs int
}

func (c *recordedCommand) Name() string        { return "ping" }
func (c *recordedCommand) Description() string { return "test" }
func (c *recordedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: "ping", Description: "test"}
}
func (c *recordedCommand) Run(_ context.Context, _ *command.Invocation) error {
	c.runs++
	return nil
}

func guildInvocation(t *testing.T, guildID string) *command.Invocation {
	t.Helper()

	store, err := storage.OpenFlatFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &command.Invocation{
		Store: storage.New(store),
		Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			GuildID:   guildID,
			ChannelID: "chan1",
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "user1", Username: "someone"},
			},
		}},
	}
}

func TestWithCommandLoggerRecordsHistory(t *testing.T) {
	inner := &recordedCommand{}
	wrapped := command.Chain(inner, WithCommandLogger())

	inv := guildInvocation(t, "guild1")
	require.NoError(t, wrapped.Run(context.Background(), inv))
	assert.Equal(t, 1, inner.runs)

	history, err := inv.Store.CommandHistory("guild1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ping", history[0].Command)
	assert.Equal(t, "someone", history[0].Username)
}

func TestWithCommandLoggerSkipsDMs(t *testing.T) {
	inner := &recordedCommand{}
	wrapped := command.Chain(inner, WithCommandLogger())

	inv := guildInvocation(t, "")
	inv.Event.Member = nil
	inv.Event.User = &discordgo.User{ID: "user1", Username: "someone"}

	require.NoError(t, wrapped.Run(context.Background(), inv))
	assert.Equal(t, 1, inner.runs)
}
