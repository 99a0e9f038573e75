package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fiadopay/gateway/internal/application"
	"github.com/fiadopay/gateway/internal/config"
	"github.com/fiadopay/gateway/internal/domain"
	"github.com/fiadopay/gateway/internal/fraud"
	"github.com/fiadopay/gateway/internal/pricing"
	"github.com/shopspring/decimal"
)

// RefundStatusPending is the fixed acknowledgment returned by Refund. The
// refund reference settles asynchronously; the payment itself is already
// REFUNDED when the response goes out.
const RefundStatusPending = "PENDING"

type CreatePaymentCommand struct {
	Method       string
	Amount       decimal.Decimal
	Currency     string
	Installments int
	OrderID      *string
}

type RefundReceipt struct {
	ID     string
	Status string
}

// PaymentService owns the payment lifecycle: idempotent creation, pricing,
// asynchronous settlement and refunds.
type PaymentService struct {
	payments application.PaymentRepository
	registry *pricing.Registry
	failures fraud.Policy
	notifier application.Notifier
	pool     application.TaskSubmitter
	cfg      config.SettlementConfig
	logger   *slog.Logger
}

func NewPaymentService(
	payments application.PaymentRepository,
	registry *pricing.Registry,
	failures fraud.Policy,
	notifier application.Notifier,
	pool application.TaskSubmitter,
	cfg config.SettlementConfig,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		registry: registry,
		failures: failures,
		notifier: notifier,
		pool:     pool,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create prices and persists a new PENDING payment, then schedules its
// settlement. A repeated idempotency key returns the original payment
// untouched: no re-pricing, no second settlement.
func (s *PaymentService) Create(
	ctx context.Context,
	merchant *domain.Merchant,
	idempotencyKey *string,
	cmd CreatePaymentCommand,
) (*domain.Payment, error) {
	if idempotencyKey != nil && *idempotencyKey != "" {
		existing, err := s.payments.FindByIdempotencyKey(ctx, merchant.ID, *idempotencyKey)
		if err != nil {
			return nil, application.NewInternalError(err)
		}
		if existing != nil {
			return existing, nil
		}
	} else {
		idempotencyKey = nil
	}

	payment, err := domain.NewPayment(
		merchant.ID,
		cmd.Method,
		cmd.Amount,
		cmd.Currency,
		cmd.Installments,
		idempotencyKey,
		cmd.OrderID,
	)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	total, rate := s.registry.Price(payment.Method, payment.Amount, cmd.Installments)
	payment.ApplyPricing(total, rate)

	if err := s.payments.Create(ctx, payment); err != nil {
		// a concurrent create with the same key won the race; the unique
		// constraint serialized us, so return the winner
		if errors.Is(err, application.ErrDuplicateIdempotencyKey) && idempotencyKey != nil {
			existing, findErr := s.payments.FindByIdempotencyKey(ctx, merchant.ID, *idempotencyKey)
			if findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, application.NewInternalError(err)
	}

	s.scheduleSettlement(payment.ID)

	return payment, nil
}

// Get returns a payment visible to the requesting merchant.
func (s *PaymentService) Get(ctx context.Context, merchant *domain.Merchant, paymentID string) (*domain.Payment, error) {
	return s.lookup(ctx, merchant, paymentID)
}

// Refund forces the payment into its terminal REFUNDED state and notifies
// the merchant. Refunding an already refunded payment is a conflict.
func (s *PaymentService) Refund(ctx context.Context, merchant *domain.Merchant, paymentID string) (*RefundReceipt, error) {
	payment, err := s.lookup(ctx, merchant, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.MarkRefunded(); err != nil {
		return nil, application.NewInvalidStateError(err)
	}

	if err := s.payments.UpdateStatus(ctx, payment); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.notifier.Send(ctx, payment)

	return &RefundReceipt{
		ID:     domain.NewRefundID(),
		Status: RefundStatusPending,
	}, nil
}

func (s *PaymentService) lookup(ctx context.Context, merchant *domain.Merchant, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if payment == nil {
		return nil, domain.NewPaymentNotFoundError(paymentID)
	}
	if !payment.OwnedBy(merchant.ID) {
		return nil, domain.NewForbiddenError(paymentID)
	}
	return payment, nil
}
