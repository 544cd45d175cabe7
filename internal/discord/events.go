package discord

// SystemEventType names the events the bot publishes for external listeners.
type SystemEventType string

const (
	// SystemEventConfirmationAccepted fires when a confirm button is pressed.
	SystemEventConfirmationAccepted SystemEventType = "confirmation_accepted"
	// SystemEventConfirmationRejected fires when a cancel button is pressed.
	SystemEventConfirmationRejected SystemEventType = "confirmation_rejected"
	// SystemEventPaginationUpdate fires when a navigation click moves a
	// paginated message to a new page.
	SystemEventPaginationUpdate SystemEventType = "pagination_update"
)

// SystemEvent carries the identity of the interaction that produced it.
// Token is the correlation token minted when the confirmation was offered;
// OldPage/NewPage are only set for pagination updates.
type SystemEvent struct {
	Type      SystemEventType
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Token     string
	OldPage   int
	NewPage   int
}

var systemEventBus = make(chan SystemEvent, 16)

// PublishSystemEvent emits an event without blocking; if no listener keeps
// up, the event is dropped.
func PublishSystemEvent(evt SystemEvent) {
	select {
	case systemEventBus <- evt:
	default:
	}
}

// SystemEvents returns the stream external listeners consume.
func SystemEvents() <-chan SystemEvent {
	return systemEventBus
}
