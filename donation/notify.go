package donation

import "github.com/Govind-619/DonateHub/utils"

// Severity of a user notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is one message for the presentation layer
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Notifier receives user notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notification)

// Notify implements Notifier
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// ChannelNotifier exposes notifications as a stream
type ChannelNotifier struct {
	ch chan Notification
}

// MaxNotificationsPerFlow is the most notifications a single flow emits:
// initializing, optimistic success and one terminal error.
const MaxNotificationsPerFlow = 3

// NewChannelNotifier returns a notifier whose stream buffers up to size
// notifications. size is raised to MaxNotificationsPerFlow so that a flow
// nobody drains still keeps its terminal notification; hosts running
// several flows at once should size for all of them or drain the stream.
func NewChannelNotifier(size int) *ChannelNotifier {
	if size < MaxNotificationsPerFlow {
		size = MaxNotificationsPerFlow
	}
	return &ChannelNotifier{ch: make(chan Notification, size)}
}

// Notify implements Notifier. When the buffer is full the notification is
// dropped and logged.
func (n *ChannelNotifier) Notify(note Notification) {
	select {
	case n.ch <- note:
	default:
		utils.LogError("Notification dropped, stream full: %s %q", note.Severity, note.Message)
	}
}

// C returns the notification stream
func (n *ChannelNotifier) C() <-chan Notification {
	return n.ch
}
