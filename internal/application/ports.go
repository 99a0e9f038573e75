package application

import (
	"context"
	"errors"

	"github.com/fiadopay/gateway/internal/domain"
)

// ErrDuplicateIdempotencyKey is returned by PaymentRepository.Create when
// the (merchant, idempotency key) uniqueness constraint rejects the row.
var ErrDuplicateIdempotencyKey = errors.New("idempotency key already exists for merchant")

// PaymentRepository is the port for payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	// FindByID returns nil, nil when the id is unknown.
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	// FindByIdempotencyKey returns nil, nil when no payment carries the key.
	FindByIdempotencyKey(ctx context.Context, merchantID int64, key string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, payment *domain.Payment) error
}

// DeliveryRepository is the port for webhook delivery persistence.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *domain.WebhookDelivery) error
	// FindByID returns nil, nil when the delivery record has vanished.
	FindByID(ctx context.Context, id int64) (*domain.WebhookDelivery, error)
	RecordAttempt(ctx context.Context, delivery *domain.WebhookDelivery) error
}

// MerchantDirectory resolves merchants; the gateway never writes to it.
type MerchantDirectory interface {
	FindByID(ctx context.Context, id int64) (*domain.Merchant, error)
}

// TaskSubmitter is the port the services use to schedule background work.
type TaskSubmitter interface {
	Submit(task func(ctx context.Context)) error
}

// Notifier is the port for the webhook dispatch side effect.
type Notifier interface {
	Send(ctx context.Context, payment *domain.Payment)
}
