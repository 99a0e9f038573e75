// Package webhook builds, signs and delivers merchant callbacks.
package webhook

import (
	"encoding/json"
	"time"

	"github.com/fiadopay/gateway/internal/domain"
)

// Event is the envelope posted to the merchant's callback URL.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	PaymentID  string `json:"paymentId"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurredAt"`
}

// BuildEvent freezes the payload bytes for a payment state change. The
// bytes are signed and stored once; retries resend them verbatim.
func BuildEvent(payment *domain.Payment, now time.Time) (string, []byte, error) {
	eventID := domain.NewEventID()

	event := Event{
		ID:   eventID,
		Type: domain.EventTypePaymentUpdated,
		Data: EventData{
			PaymentID:  payment.ID,
			Status:     string(payment.Status),
			OccurredAt: now.UTC().Format(time.RFC3339),
		},
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", nil, err
	}

	return eventID, payload, nil
}
