package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiadopay/gateway/internal/domain"
	"github.com/jackc/pgx/v5"
)

type DeliveryRepository struct {
	db *DB
}

func NewDeliveryRepository(db *DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

// Create inserts the delivery row and backfills the store-assigned id.
// Payload and signature are written once here and never updated again.
func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.WebhookDelivery) error {
	query := `
		INSERT INTO webhook_deliveries (
			event_id, event_type, payment_id, target_url,
			signature, payload, attempts, delivered, last_attempt_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		delivery.EventID,
		delivery.EventType,
		delivery.PaymentID,
		delivery.TargetURL,
		delivery.Signature,
		delivery.Payload,
		delivery.Attempts,
		delivery.Delivered,
		delivery.LastAttemptAt,
	).Scan(&delivery.ID)

	if err != nil {
		return fmt.Errorf("failed to create webhook delivery: %w", err)
	}

	return nil
}

// FindByID retrieves a delivery; nil, nil when the row has vanished
func (r *DeliveryRepository) FindByID(ctx context.Context, id int64) (*domain.WebhookDelivery, error) {
	query := `
		SELECT id, event_id, event_type, payment_id, target_url,
		       signature, payload, attempts, delivered, last_attempt_at
		FROM webhook_deliveries WHERE id = $1
	`

	var m WebhookDeliveryModel
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.EventID, &m.EventType, &m.PaymentID, &m.TargetURL,
		&m.Signature, &m.Payload, &m.Attempts, &m.Delivered, &m.LastAttemptAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan webhook delivery: %w", err)
	}
	return toDomainDelivery(m), nil
}

// RecordAttempt persists the retry bookkeeping, never the payload
func (r *DeliveryRepository) RecordAttempt(ctx context.Context, delivery *domain.WebhookDelivery) error {
	query := `
		UPDATE webhook_deliveries
		SET attempts = $1, delivered = $2, last_attempt_at = $3
		WHERE id = $4
	`

	results, err := r.db.Pool.Exec(ctx, query,
		delivery.Attempts,
		delivery.Delivered,
		delivery.LastAttemptAt,
		delivery.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to record delivery attempt: %w", err)
	}

	if results.RowsAffected() == 0 {
		return fmt.Errorf("webhook delivery %d not found", delivery.ID)
	}

	return nil
}
