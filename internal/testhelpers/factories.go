package testhelpers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fiadopay/gateway/internal/domain"
	"github.com/fiadopay/gateway/internal/infrastructure/persistence/postgres"
)

// InsertMerchant writes a merchant row directly and returns the directory view
func InsertMerchant(t *testing.T, ctx context.Context, db *postgres.DB, webhookURL *string) *domain.Merchant {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO merchants (name, webhook_url, status) VALUES ($1, $2, 'ACTIVE') RETURNING id`,
		"merchant-"+uuid.New().String()[:8],
		webhookURL,
	).Scan(&id)
	require.NoError(t, err)

	merchant, err := postgres.NewMerchantRepository(db).FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, merchant)

	return merchant
}

// NewCardPayment returns a priced card payment ready to persist
func NewCardPayment(t *testing.T, merchantID int64, idempotencyKey *string) *domain.Payment {
	payment, err := domain.NewPayment(
		merchantID,
		"CARD",
		decimal.RequireFromString("100.00"),
		"BRL",
		3,
		idempotencyKey,
		nil,
	)
	require.NoError(t, err)

	rate := 1.0
	payment.ApplyPricing(decimal.RequireFromString("109.27"), &rate)

	return payment
}

// NewPixPayment returns a passthrough payment ready to persist
func NewPixPayment(t *testing.T, merchantID int64) *domain.Payment {
	payment, err := domain.NewPayment(
		merchantID,
		"PIX",
		decimal.RequireFromString("42.50"),
		"BRL",
		1,
		nil,
		nil,
	)
	require.NoError(t, err)

	return payment
}

func StrPtr(s string) *string {
	return &s
}
