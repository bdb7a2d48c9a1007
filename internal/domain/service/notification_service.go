package service

import "context"

// PushMessage is a push notification delivered to a single device token.
type PushMessage struct {
	Token string            // Device registration token.
	Title string            // Notification title.
	Body  string            // Notification body.
	Data  map[string]string // Optional data payload, e.g. order id for deep links.
}

// NotificationService defines the interface for sending push notifications
// to customer devices. Implementations may be nil when unconfigured; callers
// must treat the service as optional.
type NotificationService interface {
	// SendPush delivers a push message to the device token it names.
	SendPush(ctx context.Context, msg *PushMessage) error
}
