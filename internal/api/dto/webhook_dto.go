package dto

import (
	"errors"
	"strings"
)

// ErrMissingEssentials marks a payload without a sender phone or message body.
var ErrMissingEssentials = errors.New("missing sender phone or message body")

// WebhookSender identifies the message sender as reported by the platform.
type WebhookSender struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// WebhookMessage carries the message content.
type WebhookMessage struct {
	Body string `json:"body"`
}

// WebhookRequest is the inbound event shape delivered by the messaging
// platform. Unknown fields are ignored.
type WebhookRequest struct {
	Sender  WebhookSender  `json:"sender"`
	Message WebhookMessage `json:"message"`
}

// InboundEvent is the canonical, validated form of a webhook delivery.
type InboundEvent struct {
	Phone       string
	DisplayName string
	Text        string
}

// Normalize validates the payload and returns its canonical form. The
// message text is accepted as-is; only presence is enforced.
func (r WebhookRequest) Normalize() (InboundEvent, error) {
	phone := strings.TrimSpace(r.Sender.Phone)
	text := r.Message.Body
	if phone == "" || strings.TrimSpace(text) == "" {
		return InboundEvent{}, ErrMissingEssentials
	}
	return InboundEvent{
		Phone:       phone,
		DisplayName: strings.TrimSpace(r.Sender.Name),
		Text:        text,
	}, nil
}

// WebhookAck is the success envelope returned to the platform.
type WebhookAck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
