package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentModel mirrors the payments table row.
type PaymentModel struct {
	ID                string
	MerchantID        int64
	Method            string
	Amount            decimal.Decimal
	Currency          string
	Installments      int
	MonthlyRate       *float64
	TotalWithInterest decimal.Decimal
	Status            string
	IdempotencyKey    *string
	OrderID           *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WebhookDeliveryModel mirrors the webhook_deliveries table row.
type WebhookDeliveryModel struct {
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

// MerchantModel mirrors the merchants table row.
type MerchantModel struct {
	ID         int64
	Name       string
	WebhookURL *string
	Status     string
}
