package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventTypePaymentUpdated is the only event type the gateway emits
const EventTypePaymentUpdated = "payment.updated"

// WebhookDelivery is one persisted notification and its retry history.
// Payload and Signature are frozen at creation; retries resend the exact
// same bytes. Delivered flips false to true at most once.
type WebhookDelivery struct {
	ID            int64
	EventID       string
	EventType     string
	PaymentID     string
	TargetURL     string
	Signature     string
	Payload       []byte
	Attempts      int
	Delivered     bool
	LastAttemptAt *time.Time
}

// NewEventID generates a short prefixed event identifier
func NewEventID() string {
	return "evt_" + uuid.New().String()[:8]
}

func NewWebhookDelivery(eventID, paymentID, targetURL, signature string, payload []byte) *WebhookDelivery {
	return &WebhookDelivery{
		EventID:   eventID,
		EventType: EventTypePaymentUpdated,
		PaymentID: paymentID,
		TargetURL: targetURL,
		Signature: signature,
		Payload:   payload,
		Attempts:  0,
		Delivered: false,
	}
}

// RecordAttempt marks the outcome of one delivery attempt
func (d *WebhookDelivery) RecordAttempt(attempt int, delivered bool, at time.Time) {
	d.Attempts = attempt
	d.Delivered = delivered
	d.LastAttemptAt = &at
}
