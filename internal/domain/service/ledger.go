package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Debt ledger builder
// ---------------------------------------------------------------------------

// Debt is one obligation in the simulator's ledger. Balance mutates across
// simulated months; MonthlyRate and MinPayment are derived once at build
// time and never change.
type Debt struct {
	Name        string
	Balance     decimal.Decimal
	MonthlyRate decimal.Decimal
	MinPayment  decimal.Decimal
}

// BuildDebtLedger normalizes card and loan accounts into simulator debts.
//
// Cards: the contractual minimum is the larger of the percentage minimum and
// the month's interest-only amount, so the minimum-payment scenario can
// never negatively amortize. Loans: the contractual minimum is the standard
// fixed amortization payment for the remaining term.
func BuildDebtLedger(cards []model.CardAccount, loans []model.LoanAccount) []Debt {
	debts := make([]Debt, 0, len(cards)+len(loans))

	hundred := decimal.NewFromInt(100)
	for _, card := range cards {
		monthlyRate := model.MonthlyRate(card.AnnualRatePct)
		minPayment := card.Balance.Mul(card.MinPaymentPct.Div(hundred)).Round(2)
		interestOnly := card.Balance.Mul(monthlyRate).Round(2)
		if interestOnly.GreaterThan(minPayment) {
			minPayment = interestOnly
		}
		debts = append(debts, Debt{
			Name:        fmt.Sprintf("card:%s", card.AccountID),
			Balance:     card.Balance,
			MonthlyRate: monthlyRate,
			MinPayment:  minPayment,
		})
	}

	for _, loan := range loans {
		monthlyRate := model.MonthlyRate(loan.AnnualRatePct)
		debts = append(debts, Debt{
			Name:        fmt.Sprintf("loan:%s", loan.AccountID),
			Balance:     loan.Balance,
			MonthlyRate: monthlyRate,
			MinPayment:  model.AmortizedPayment(loan.Balance, monthlyRate, loan.RemainingTermMonths),
		})
	}

	return debts
}

// cloneDebts copies a ledger so each scenario run works on private state.
func cloneDebts(debts []Debt) []Debt {
	out := make([]Debt, len(debts))
	copy(out, debts)
	return out
}
