package pricing

import "github.com/shopspring/decimal"

// cardMonthlyRate is the flat informational rate reported to merchants.
// The actual compounding uses the 3% per-installment factor below.
const cardMonthlyRate = 1.0

var cardFactor = decimal.RequireFromString("1.03")

// CardStrategy compounds a fixed 3% factor per installment when the
// payment is split. Single-installment card payments carry no interest.
type CardStrategy struct{}

func (CardStrategy) Calculate(amount decimal.Decimal, installments int) (decimal.Decimal, *float64) {
	if installments <= 1 {
		return amount, nil
	}

	rate := cardMonthlyRate
	total := amount.Mul(cardFactor.Pow(decimal.NewFromInt(int64(installments)))).Round(2)
	return total, &rate
}
