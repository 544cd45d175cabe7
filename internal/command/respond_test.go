package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowupParamsEphemeralFlag(t *testing.T) {
	embed := &discordgo.MessageEmbed{Description: "hello"}

	params := followupParams(embed, true)
	require.Len(t, params.Embeds, 1)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, params.Flags&discordgo.MessageFlagsEphemeral)

	params = followupParams(embed, false)
	assert.Zero(t, params.Flags)
}

func TestConfirmationRowCarriesToken(t *testing.T) {
	row, ok := ConfirmationRow("tok123").(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	accept := row.Components[0].(discordgo.Button)
	reject := row.Components[1].(discordgo.Button)
	assert.Equal(t, ConfirmAcceptPrefix+"tok123", accept.CustomID)
	assert.Equal(t, ConfirmRejectPrefix+"tok123", reject.CustomID)
	assert.Equal(t, discordgo.DangerButton, accept.Style)
}
