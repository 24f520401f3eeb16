package model

import (
	"github.com/shopspring/decimal"
)

// AmortizedPayment computes the standard fixed monthly payment that retires
// balance over termMonths at the given monthly rate:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// The intermediate arithmetic stays in decimal; only the final payment is
// rounded to two decimals. A non-positive balance or term yields zero.
func AmortizedPayment(balance, monthlyRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	if monthlyRate.IsZero() {
		// Zero-interest: even split.
		return balance.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	}

	one := decimal.NewFromInt(1)
	factor := one.Add(monthlyRate).Pow(decimal.NewFromInt(int64(termMonths)))
	payment := balance.Mul(monthlyRate).Mul(factor).Div(factor.Sub(one))
	return payment.Round(2)
}

// MonthlyRate converts an annual percentage rate to a monthly decimal rate
// (annual / 100 / 12). Derived once at ledger-build time and never mutated.
func MonthlyRate(annualRatePct decimal.Decimal) decimal.Decimal {
	return annualRatePct.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
}
