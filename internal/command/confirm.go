package command

import (
	"github.com/bwmarrin/discordgo"
	"github.com/gofrs/uuid/v5"
)

// Confirmation custom ID prefixes. The dispatcher owns clicks on these and
// publishes the outcome as a system event; the token after the prefix
// correlates the click with whoever offered the confirmation.
const (
	ConfirmAcceptPrefix = "confirm_accept_"
	ConfirmRejectPrefix = "confirm_reject_"
)

// NewConfirmationToken mints a correlation token for a confirmation row.
func NewConfirmationToken() string {
	return uuid.Must(uuid.NewV4()).String()
}

// ConfirmationRow builds a confirm/cancel button pair bound to token.
func ConfirmationRow(token string) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "Confirm", Style: discordgo.DangerButton, CustomID: ConfirmAcceptPrefix + token},
		discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: ConfirmRejectPrefix + token},
	}}
}
