// Package pricing applies payment-method specific interest to an amount.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy computes the final charged amount for a payment method.
// The returned rate is nil when no interest was applied.
type Strategy interface {
	Calculate(amount decimal.Decimal, installments int) (decimal.Decimal, *float64)
}

// Registry maps a normalized payment method code to its strategy. The set
// is fixed at construction; lookup is case-insensitive.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds the default registry with all known methods.
func NewRegistry() *Registry {
	return &Registry{
		strategies: map[string]Strategy{
			"CARD":   CardStrategy{},
			"PIX":    PassthroughStrategy{},
			"BOLETO": PassthroughStrategy{},
		},
	}
}

// Price applies the method's strategy. Unknown methods pass the amount
// through unchanged with no rate; that permissive default is intentional.
func (r *Registry) Price(method string, amount decimal.Decimal, installments int) (decimal.Decimal, *float64) {
	s, ok := r.strategies[strings.ToUpper(method)]
	if !ok {
		return amount, nil
	}
	return s.Calculate(amount, installments)
}

// PassthroughStrategy charges the amount as-is. PIX and BOLETO use it.
type PassthroughStrategy struct{}

func (PassthroughStrategy) Calculate(amount decimal.Decimal, installments int) (decimal.Decimal, *float64) {
	return amount, nil
}
