package webhook

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fiadopay/gateway/internal/application"
	"github.com/fiadopay/gateway/internal/config"
	"github.com/fiadopay/gateway/internal/domain"
)

// Dispatcher persists a signed delivery record for a payment state change
// and schedules the retrying delivery worker. Send never blocks on the
// actual HTTP call and never reports failure to its caller.
type Dispatcher struct {
	merchants   application.MerchantDirectory
	deliveries  application.DeliveryRepository
	pool        application.TaskSubmitter
	client      *http.Client
	secret      string
	maxAttempts int
	backoffStep time.Duration
	logger      *slog.Logger
}

func NewDispatcher(
	merchants application.MerchantDirectory,
	deliveries application.DeliveryRepository,
	pool application.TaskSubmitter,
	cfg config.WebhookConfig,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		merchants:  merchants,
		deliveries: deliveries,
		pool:       pool,
		client: &http.Client{
			Timeout: cfg.PostTimeout,
		},
		secret:      cfg.Secret,
		maxAttempts: cfg.MaxAttempts,
		backoffStep: cfg.BackoffStep,
		logger:      logger,
	}
}

// Send builds the event for the payment's current state. Merchants without
// a callback URL are skipped silently; no delivery record is created.
func (d *Dispatcher) Send(ctx context.Context, payment *domain.Payment) {
	merchant, err := d.merchants.FindByID(ctx, payment.MerchantID)
	if err != nil {
		d.logger.Error("webhook merchant lookup failed",
			"payment_id", payment.ID,
			"merchant_id", payment.MerchantID,
			"error", err)
		return
	}
	if merchant == nil || !merchant.HasWebhook() {
		return
	}

	eventID, payload, err := BuildEvent(payment, time.Now())
	if err != nil {
		d.logger.Error("webhook event serialization failed",
			"payment_id", payment.ID,
			"error", err)
		return
	}

	signature := Sign(d.secret, payload)
	delivery := domain.NewWebhookDelivery(eventID, payment.ID, *merchant.WebhookURL, signature, payload)

	if err := d.deliveries.Create(ctx, delivery); err != nil {
		d.logger.Error("webhook delivery record creation failed",
			"payment_id", payment.ID,
			"event_id", eventID,
			"error", err)
		return
	}

	deliveryID := delivery.ID
	if err := d.pool.Submit(func(taskCtx context.Context) {
		d.deliverWithRetry(taskCtx, deliveryID)
	}); err != nil {
		d.logger.Error("webhook delivery not scheduled",
			"delivery_id", deliveryID,
			"event_id", eventID,
			"error", err)
	}
}
