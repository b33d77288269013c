package core

// Notification is a short text pushed to a user's chat identity.
// Delivery is best-effort: sinks log failures and never report them back
// to the operation that triggered the notification.
type Notification struct {
	ChatID string // recipient's external chat identity
	Email  string // optional; used by mail-based sinks only
	Name   string // recipient display name
	Text   string
}

func (n Notification) HasRecipient() bool { return n.ChatID != "" || n.Email != "" }

// NotificationService is any sink that can deliver notifications.
type NotificationService interface {
	// Send delivers notifications concurrently; it never blocks on delivery.
	Send(notifs ...*Notification)
}
