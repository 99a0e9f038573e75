// Package domain encodes the payment entity, its lifecycle and related records
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "PENDING"
	StatusApproved PaymentStatus = "APPROVED"
	StatusDeclined PaymentStatus = "DECLINED"
	StatusRefunded PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID                string
	MerchantID        int64
	Method            string
	Amount            decimal.Decimal
	Currency          string
	Installments      int
	MonthlyRate       *float64
	TotalWithInterest decimal.Decimal
	Status            PaymentStatus
	IdempotencyKey    *string
	OrderID           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPaymentID generates a short prefixed payment identifier
func NewPaymentID() string {
	return "pay_" + uuid.New().String()[:8]
}

func NewPayment(
	merchantID int64,
	method string,
	amount decimal.Decimal,
	currency string,
	installments int,
	idempotencyKey *string,
	orderID *string,
) (*Payment, error) {
	if method == "" {
		return nil, NewMissingRequiredFieldError("method")
	}
	if currency == "" {
		return nil, NewMissingRequiredFieldError("currency")
	}
	if amount.IsNegative() {
		return nil, NewInvalidAmountError(amount)
	}
	if installments < 1 {
		installments = 1
	}

	now := time.Now()
	return &Payment{
		ID:                NewPaymentID(),
		MerchantID:        merchantID,
		Method:            strings.ToUpper(method),
		Amount:            amount,
		Currency:          currency,
		Installments:      installments,
		TotalWithInterest: amount,
		Status:            StatusPending,
		IdempotencyKey:    idempotencyKey,
		OrderID:           orderID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ApplyPricing records the outcome of the interest calculation. Called once
// before the payment is persisted, never recomputed afterwards.
func (p *Payment) ApplyPricing(total decimal.Decimal, rate *float64) {
	p.TotalWithInterest = total
	p.MonthlyRate = rate
}

func (p *Payment) MarkApproved() error {
	return p.transition(StatusApproved)
}

func (p *Payment) MarkDeclined() error {
	return p.transition(StatusDeclined)
}

// MarkRefunded forces the terminal state from any non-terminal status
func (p *Payment) MarkRefunded() error {
	return p.transition(StatusRefunded)
}

func (p *Payment) transition(target PaymentStatus) error {
	if err := p.canTransitionTo(target); err != nil {
		return err
	}
	p.Status = target
	p.UpdatedAt = time.Now()
	return nil
}

// defines the allowed settlement and refund transitions
func (p *Payment) canTransitionTo(target PaymentStatus) error {
	switch p.Status {
	case StatusPending:
		return p.allow(target, StatusApproved, StatusDeclined, StatusRefunded)
	case StatusApproved:
		return p.allow(target, StatusRefunded)
	case StatusDeclined:
		return p.allow(target, StatusRefunded)
	}
	return NewInvalidTransitionError(p.Status, target)
}

// Helper to check allowed state transitions
func (p *Payment) allow(target PaymentStatus, allowed ...PaymentStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(p.Status, target)
}

// IsTerminal reports whether no further transition is possible
func (p *Payment) IsTerminal() bool {
	return p.Status == StatusRefunded
}

// IsSettled reports whether the settlement decision has been made
func (p *Payment) IsSettled() bool {
	return p.Status == StatusApproved || p.Status == StatusDeclined
}

// OwnedBy checks merchant ownership on the request path
func (p *Payment) OwnedBy(merchantID int64) bool {
	return p.MerchantID == merchantID
}

// NewRefundID generates the reference id returned by the refund endpoint
func NewRefundID() string {
	return "ref_" + uuid.New().String()
}
