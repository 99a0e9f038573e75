package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiadopay/gateway/internal/application"
	"github.com/fiadopay/gateway/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment. The partial unique index on
// (merchant_id, idempotency_key) rejects a concurrent duplicate, which is
// surfaced as application.ErrDuplicateIdempotencyKey.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, merchant_id, method, amount, currency, installments,
			monthly_rate, total_with_interest, status, idempotency_key,
			metadata_order_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	p := toPaymentModel(payment)
	_, err := r.db.Pool.Exec(ctx, query,
		p.ID,
		p.MerchantID,
		p.Method,
		p.Amount,
		p.Currency,
		p.Installments,
		p.MonthlyRate,
		p.TotalWithInterest,
		p.Status,
		p.IdempotencyKey,
		p.OrderID,
		p.CreatedAt,
		p.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return application.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// FindByID retrieves a payment; nil, nil when the id is unknown
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, merchant_id, method, amount, currency, installments,
		       monthly_rate, total_with_interest, status, idempotency_key,
		       metadata_order_id, created_at, updated_at
		FROM payments WHERE id = $1
	`

	row := r.db.Pool.QueryRow(ctx, query, id)
	return scanPayment(row)
}

// FindByIdempotencyKey retrieves the payment created under a key for a merchant
func (r *PaymentRepository) FindByIdempotencyKey(ctx context.Context, merchantID int64, key string) (*domain.Payment, error) {
	query := `
		SELECT id, merchant_id, method, amount, currency, installments,
		       monthly_rate, total_with_interest, status, idempotency_key,
		       metadata_order_id, created_at, updated_at
		FROM payments WHERE merchant_id = $1 AND idempotency_key = $2
	`

	row := r.db.Pool.QueryRow(ctx, query, merchantID, key)
	return scanPayment(row)
}

// UpdateStatus persists a state transition as a row-level atomic write
func (r *PaymentRepository) UpdateStatus(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	results, err := r.db.Pool.Exec(ctx, query, string(payment.Status), payment.UpdatedAt, payment.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if results.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", payment.ID)
	}

	return nil
}

// scanPayment converts a database row into a domain Payment.
func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var m PaymentModel
	err := row.Scan(
		&m.ID, &m.MerchantID, &m.Method, &m.Amount, &m.Currency, &m.Installments,
		&m.MonthlyRate, &m.TotalWithInterest, &m.Status, &m.IdempotencyKey,
		&m.OrderID, &m.CreatedAt, &m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return toDomainPayment(m), nil
}
