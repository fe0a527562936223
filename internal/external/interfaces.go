package external

import (
	"context"

	"alertforwarder/internal/types"
)

// Message is one push notification handed to a NotificationPublisher.
type Message struct {
	Title string
	Body  string
	Token types.SecretString
}

// NotificationPublisher abstracts the push-notification delivery service.
// NtfyClient is the production implementation.
type NotificationPublisher interface {
	// Publish delivers one message. An error means the message was not
	// accepted by the endpoint.
	Publish(ctx context.Context, msg Message) error
}
