package webhook

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// deliverWithRetry posts the frozen payload until it lands a 2xx or the
// attempt budget runs out. Every attempt is recorded on the delivery row;
// exhausting the budget is a silent permanent failure.
func (d *Dispatcher) deliverWithRetry(ctx context.Context, deliveryID int64) {
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		delivery, err := d.deliveries.FindByID(ctx, deliveryID)
		if err != nil {
			d.logger.Error("delivery reload failed", "delivery_id", deliveryID, "error", err)
			return
		}
		if delivery == nil || delivery.Delivered {
			return
		}

		ok := d.post(ctx, delivery.TargetURL, delivery.EventType, delivery.Signature, delivery.Payload)

		delivery.RecordAttempt(attempt, ok, time.Now())
		if err := d.deliveries.RecordAttempt(ctx, delivery); err != nil {
			d.logger.Error("delivery attempt not recorded",
				"delivery_id", deliveryID,
				"attempt", attempt,
				"error", err)
		}

		if ok {
			d.logger.Info("webhook delivered",
				"delivery_id", deliveryID,
				"event_id", delivery.EventID,
				"attempts", attempt)
			return
		}

		// linear backoff between attempts, none before the first
		if attempt < d.maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * d.backoffStep):
			case <-ctx.Done():
				return
			}
		}
	}

	d.logger.Warn("webhook delivery abandoned", "delivery_id", deliveryID, "attempts", d.maxAttempts)
}

// post reports whether the target acknowledged with a 2xx. Transport errors
// and non-2xx responses are equivalent: the attempt failed.
func (d *Dispatcher) post(ctx context.Context, url, eventType, signature string, payload []byte) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", eventType)
	req.Header.Set("X-Signature", signature)

	resp, err := d.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
