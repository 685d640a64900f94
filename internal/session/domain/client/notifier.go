package client

// NotificationKind classifies a user-facing notification.
type NotificationKind string

const (
	NoteSuccess NotificationKind = "success"
	NoteError   NotificationKind = "error"
	NoteInfo    NotificationKind = "info"
)

// Notifier is the side channel for user-facing messages. It is a capability
// injected into the session manager so the state machine stays testable
// without a UI.
type Notifier interface {
	Notify(kind NotificationKind, title, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(kind NotificationKind, title, message string) {}
