package discord

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bottemplate/internal/command"
	"bottemplate/internal/cooldown"
	"bottemplate/internal/paginator"
	"bottemplate/internal/permissions"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateCommand struct {
	name      string
	cooldown  time.Duration
	userPerms int64
	botPerms  int64
}

func (c *gateCommand) Name() string        { return c.name }
func (c *gateCommand) Description() string { return "test command" }
func (c *gateCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.name, Description: "test command"}
}
func (c *gateCommand) Run(context.Context, *command.Invocation) error { return nil }
func (c *gateCommand) Cooldown() time.Duration                        { return c.cooldown }
func (c *gateCommand) UserPermissions() int64                         { return c.userPerms }
func (c *gateCommand) BotPermissions() int64                          { return c.botPerms }

type grantResolver struct {
	grants map[string]int64
}

func (r *grantResolver) UserChannelPermissions(userID, _ string) (int64, error) {
	return r.grants[userID], nil
}

func (r *grantResolver) UserGuildPermissions(userID, _ string) (int64, error) {
	return r.grants[userID], nil
}

func TestCommandGatesCooldownBeforePermissions(t *testing.T) {
	tr := cooldown.NewTracker()
	eval := permissions.NewEvaluator(&grantResolver{grants: map[string]int64{}}, "")
	cmd := &gateCommand{name: "wipe", cooldown: 5 * time.Second, userPerms: discordgo.PermissionAdministrator}

	// First call arms the cooldown and falls through to the permission gate.
	d := commandGates(tr, eval, 0, cmd, "u1", "bot", "g1", "ch1")
	require.Equal(t, denialUserPerms, d.kind)
	assert.Equal(t, []string{"Administrator"}, d.missing)

	// Same user again: the live cooldown wins even though the permission
	// denial still applies.
	d = commandGates(tr, eval, 0, cmd, "u1", "bot", "g1", "ch1")
	require.Equal(t, denialCooldown, d.kind)
	assert.Greater(t, d.remaining, time.Duration(0))
	assert.LessOrEqual(t, d.remaining, 5*time.Second)
}

func TestCommandGatesBotPermissions(t *testing.T) {
	tr := cooldown.NewTracker()
	resolver := &grantResolver{grants: map[string]int64{
		"u1": discordgo.PermissionAdministrator,
	}}
	eval := permissions.NewEvaluator(resolver, "")
	cmd := &gateCommand{
		name:      "history",
		userPerms: discordgo.PermissionAdministrator,
		botPerms:  discordgo.PermissionSendMessages,
	}

	d := commandGates(tr, eval, 0, cmd, "u1", "bot", "g1", "ch1")
	require.Equal(t, denialBotPerms, d.kind)
	assert.Equal(t, []string{"Send Messages"}, d.missing)
}

func TestCommandGatesAllClear(t *testing.T) {
	tr := cooldown.NewTracker()
	resolver := &grantResolver{grants: map[string]int64{
		"u1":  discordgo.PermissionSendMessages,
		"bot": discordgo.PermissionSendMessages,
	}}
	eval := permissions.NewEvaluator(resolver, "")
	cmd := &gateCommand{name: "ping", userPerms: discordgo.PermissionSendMessages, botPerms: discordgo.PermissionSendMessages}

	d := commandGates(tr, eval, 0, cmd, "u1", "bot", "g1", "ch1")
	assert.Equal(t, denialNone, d.kind)
}

func TestCommandGatesOwnerBypass(t *testing.T) {
	tr := cooldown.NewTracker()
	eval := permissions.NewEvaluator(&grantResolver{grants: map[string]int64{
		"bot": discordgo.PermissionAdministrator,
	}}, "owner")
	cmd := &gateCommand{name: "wipe", userPerms: discordgo.PermissionAdministrator, botPerms: discordgo.PermissionSendMessages}

	d := commandGates(tr, eval, 0, cmd, "owner", "bot", "g1", "ch1")
	assert.Equal(t, denialNone, d.kind)
}

func TestCommandGatesAdministratorGrantPasses(t *testing.T) {
	tr := cooldown.NewTracker()
	resolver := &grantResolver{grants: map[string]int64{
		"u1":  discordgo.PermissionAdministrator,
		"bot": discordgo.PermissionAdministrator,
	}}
	eval := permissions.NewEvaluator(resolver, "")
	cmd := &gateCommand{
		name:      "history",
		userPerms: discordgo.PermissionManageServer,
		botPerms:  discordgo.PermissionSendMessages,
	}

	// Neither grant carries the specific bits, but Administrator implies them.
	d := commandGates(tr, eval, 0, cmd, "u1", "bot", "g1", "ch1")
	assert.Equal(t, denialNone, d.kind)
}

func TestNavTarget(t *testing.T) {
	tests := []struct {
		customID string
		cur      int
		total    int
		want     int
	}{
		{paginator.CustomIDFirst, 3, 5, 0},
		{paginator.CustomIDPrev, 3, 5, 2},
		{paginator.CustomIDNext, 3, 5, 4},
		{paginator.CustomIDLast, 0, 5, 4},
		{paginator.CustomIDPrev, 0, 5, 0},
		{paginator.CustomIDNext, 4, 5, 4},
		{paginator.CustomIDFirst, 0, 1, 0},
		{paginator.CustomIDLast, 0, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, navTarget(tt.customID, tt.cur, tt.total),
			"customID=%s cur=%d total=%d", tt.customID, tt.cur, tt.total)
	}
}

func indicatorMessage(label string) *discordgo.Message {
	return &discordgo.Message{Components: []discordgo.MessageComponent{
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.Button{CustomID: paginator.CustomIDPrev, Label: "◀"},
			&discordgo.Button{CustomID: paginator.CustomIDIndicator, Label: label},
			&discordgo.Button{CustomID: paginator.CustomIDNext, Label: "▶"},
		}},
	}}
}

func TestCurrentPageFromMessage(t *testing.T) {
	page, total, err := currentPageFromMessage(indicatorMessage("2/5"))
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 5, total)

	_, _, err = currentPageFromMessage(nil)
	assert.Error(t, err)

	_, _, err = currentPageFromMessage(&discordgo.Message{})
	assert.Error(t, err)

	_, _, err = currentPageFromMessage(indicatorMessage("9/5"))
	assert.Error(t, err)
}

func TestIndicatorLabelRoundTrip(t *testing.T) {
	items := make([]int, 23)
	p := paginator.New(items, func(i int) (string, string) {
		return fmt.Sprintf("#%d", i), "item"
	}, paginator.Options{PerPage: 5})

	for n := 0; n < p.PageCount(); n++ {
		r := p.Page(n)
		msg := &discordgo.Message{Components: pointerComponents(r.Components)}
		page, total, err := currentPageFromMessage(msg)
		require.NoError(t, err)
		assert.Equal(t, n, page)
		assert.Equal(t, p.PageCount(), total)
	}
}

// pointerComponents mirrors how discordgo unmarshals a received message:
// rows and buttons arrive as pointers, not the values we sent.
func pointerComponents(comps []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(comps))
	for _, c := range comps {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			out = append(out, c)
			continue
		}
		inner := make([]discordgo.MessageComponent, 0, len(row.Components))
		for _, ic := range row.Components {
			if btn, ok := ic.(discordgo.Button); ok {
				b := btn
				inner = append(inner, &b)
				continue
			}
			inner = append(inner, ic)
		}
		out = append(out, &discordgo.ActionsRow{Components: inner})
	}
	return out
}

func TestPaginationEditExpired(t *testing.T) {
	b := &Bot{paginators: paginator.NewRegistry(time.Minute)}

	embed, comps, expired := b.paginationEdit("gone", 2)
	require.True(t, expired)
	require.NotNil(t, embed)
	assert.Contains(t, embed.Description, "expired")
	assert.Empty(t, comps, "expired notice must strip every control")
}

func TestPaginationEditLive(t *testing.T) {
	b := &Bot{paginators: paginator.NewRegistry(time.Minute)}
	items := []string{"a", "b", "c", "d", "e", "f", "g"}
	p := paginator.New(items, func(s string) (string, string) {
		return s, "value"
	}, paginator.Options{PerPage: 3, Title: "Items"})
	b.paginators.Register("msg1", p)

	embed, comps, expired := b.paginationEdit("msg1", 2)
	require.False(t, expired)
	require.NotNil(t, embed)
	assert.Equal(t, "Items", embed.Title)
	assert.Len(t, embed.Fields, 1, "last page holds the single remainder item")
	assert.Equal(t, "Page 3/3", embed.Footer.Text)
	require.Len(t, comps, 1)

	// Out-of-range targets clamp instead of erroring.
	embed, _, expired = b.paginationEdit("msg1", 99)
	require.False(t, expired)
	assert.Equal(t, "Page 3/3", embed.Footer.Text)
}
