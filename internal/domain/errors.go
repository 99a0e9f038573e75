package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Domain validation errors
const (
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodePaymentNotFound      = "PAYMENT_NOT_FOUND"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeMerchantNotFound     = "MERCHANT_NOT_FOUND"
)

func NewUnauthorizedError() *DomainError {
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: "invalid or missing merchant credentials",
	}
}

func NewPaymentNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentNotFound,
		Message: fmt.Sprintf("payment with ID %s not found", id),
	}
}

func NewForbiddenError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeForbidden,
		Message: fmt.Sprintf("payment %s belongs to another merchant", id),
	}
}

func NewInvalidTransitionError(from, to PaymentStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewInvalidAmountError(amount decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %s", amount),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewMerchantNotFoundError(id int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeMerchantNotFound,
		Message: fmt.Sprintf("merchant %d not found", id),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
