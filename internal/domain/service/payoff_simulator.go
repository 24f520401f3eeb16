package service

import (
	"github.com/shopspring/decimal"
)

// DefaultHorizonMonths caps every multi-debt simulation. Exceeding it yields
// a non-convergent outcome, not an error.
const DefaultHorizonMonths = 600

// PayoffOutcome is the terminal state of a simulation run. A nil Months
// means the ledger did not reach zero within the horizon; TotalInterest and
// TotalPaid then hold whatever accumulated before the cap.
type PayoffOutcome struct {
	Months        *int
	TotalInterest decimal.Decimal
	TotalPaid     decimal.Decimal
}

// SimulatePayoff advances the ledger month by month under a fixed monthly
// budget until every balance reaches zero or the horizon is hit.
//
// Each month: interest accrues on every open balance (rounded to cents per
// debt), every active debt is owed its contractual minimum capped at its
// balance, and any budget left over is allocated avalanche-style to the
// highest-rate active debt. When the minimums alone exceed the nominal
// budget the effective budget is raised to cover them; the simulator never
// lets a debt go unpaid below its contractual floor.
//
// The allocator is deliberately myopic: it re-picks the highest-rate debt
// every month rather than optimizing over the whole horizon, which mirrors
// how payments are actually serviced.
func SimulatePayoff(debts []Debt, monthlyBudget decimal.Decimal, horizonMonths int) PayoffOutcome {
	working := cloneDebts(debts)
	balances := make([]decimal.Decimal, len(working))
	for i, debt := range working {
		balances[i] = debt.Balance
	}

	totalInterest := decimal.Zero
	totalPaid := decimal.Zero
	months := 0

	for iter := 0; iter < horizonMonths; iter++ {
		if allSettled(balances) {
			m := months
			return PayoffOutcome{Months: &m, TotalInterest: totalInterest, TotalPaid: totalPaid}
		}

		months++

		// Accrual on opening balances.
		for i, debt := range working {
			if balances[i].LessThanOrEqual(decimal.Zero) {
				continue
			}
			interest := balances[i].Mul(debt.MonthlyRate).Round(2)
			balances[i] = balances[i].Add(interest)
			totalInterest = totalInterest.Add(interest)
		}

		// Contractual minimums, capped at the post-accrual balance.
		payments := make([]decimal.Decimal, len(working))
		active := make([]int, 0, len(working))
		for i := range working {
			if balances[i].GreaterThan(decimal.Zero) {
				active = append(active, i)
				payments[i] = decimal.Min(working[i].MinPayment, balances[i])
			} else {
				payments[i] = decimal.Zero
			}
		}

		required := decimal.Zero
		for _, payment := range payments {
			required = required.Add(payment)
		}

		// Budget floor: minimums are always paid in full.
		budget := monthlyBudget
		if required.GreaterThan(budget) {
			budget = required
		}

		// Avalanche surplus allocation.
		extra := budget.Sub(required)
		for extra.GreaterThan(decimal.Zero) && len(active) > 0 {
			pos := 0
			for i := 1; i < len(active); i++ {
				if working[active[i]].MonthlyRate.GreaterThan(working[active[pos]].MonthlyRate) {
					pos = i
				}
			}
			idx := active[pos]
			remaining := balances[idx].Sub(payments[idx])
			if remaining.LessThanOrEqual(decimal.Zero) {
				active = append(active[:pos], active[pos+1:]...)
				continue
			}
			add := decimal.Min(extra, remaining)
			payments[idx] = payments[idx].Add(add)
			extra = extra.Sub(add)
		}

		// Apply payments, clamped against rounding drift.
		for i, payment := range payments {
			if balances[i].LessThanOrEqual(decimal.Zero) {
				continue
			}
			actual := decimal.Min(payment, balances[i])
			balances[i] = balances[i].Sub(actual)
			totalPaid = totalPaid.Add(actual)
		}

		if allSettled(balances) {
			m := months
			return PayoffOutcome{Months: &m, TotalInterest: totalInterest, TotalPaid: totalPaid}
		}
	}

	return PayoffOutcome{TotalInterest: totalInterest, TotalPaid: totalPaid}
}

// SimulateSingleDebt is the accelerated single-obligation variant used by
// surplus-consolidation scenarios. Each month interest accrues and the
// payment's remainder retires principal; a payment that does not cover the
// month's interest cannot amortize the debt and yields a non-convergent
// outcome immediately. The iteration ceiling is twice maxTermMonths.
func SimulateSingleDebt(balance, monthlyRate, monthlyPayment decimal.Decimal, maxTermMonths int) PayoffOutcome {
	if monthlyPayment.LessThanOrEqual(decimal.Zero) {
		return PayoffOutcome{TotalInterest: decimal.Zero, TotalPaid: decimal.Zero}
	}

	months := 0
	totalInterest := decimal.Zero
	totalPaid := decimal.Zero
	remaining := balance

	for iter := 0; iter < maxTermMonths*2; iter++ {
		if remaining.LessThanOrEqual(decimal.Zero) {
			m := months
			return PayoffOutcome{Months: &m, TotalInterest: totalInterest, TotalPaid: totalPaid}
		}
		months++

		interest := remaining.Mul(monthlyRate).Round(2)
		principal := monthlyPayment.Sub(interest)
		if principal.LessThanOrEqual(decimal.Zero) {
			return PayoffOutcome{TotalInterest: totalInterest, TotalPaid: totalPaid}
		}
		if principal.GreaterThan(remaining) {
			principal = remaining
		}

		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(interest.Add(principal))
		remaining = remaining.Sub(principal)
	}

	if remaining.LessThanOrEqual(decimal.Zero) {
		m := months
		return PayoffOutcome{Months: &m, TotalInterest: totalInterest, TotalPaid: totalPaid}
	}
	return PayoffOutcome{TotalInterest: totalInterest, TotalPaid: totalPaid}
}

func allSettled(balances []decimal.Decimal) bool {
	for _, balance := range balances {
		if balance.GreaterThan(decimal.Zero) {
			return false
		}
	}
	return true
}
