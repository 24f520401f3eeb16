package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Scenario composer
// ---------------------------------------------------------------------------

// ScenarioComposer orchestrates the payoff simulator into the scenario set
// reported to the caller: the minimum-payment baseline, the optimized-budget
// plan, and one consolidation (plus optional surplus-accelerated) scenario
// per eligible offer. It is stateless and safe for concurrent use.
type ScenarioComposer struct {
	horizonMonths int
}

// NewScenarioComposer creates a composer with the default payoff horizon.
func NewScenarioComposer() *ScenarioComposer {
	return &ScenarioComposer{horizonMonths: DefaultHorizonMonths}
}

// Compose builds the ordered scenario list for a customer. The ledger is
// built once and copied per simulation run; nothing is shared between
// scenarios or invocations.
func (c *ScenarioComposer) Compose(
	profile model.CustomerProfile,
	eligibility model.EligibilityResult,
) []model.ScenarioResult {
	debts := BuildDebtLedger(profile.Cards, profile.Loans)
	if len(debts) == 0 {
		zeroSavings := decimal.Zero.Round(2)
		payoff := 0
		return []model.ScenarioResult{{
			Type:             valueobject.ScenarioTypeMinimumPayment,
			MonthlyPayment:   decimal.Zero,
			PayoffMonths:     &payoff,
			TotalPaid:        decimal.Zero,
			InterestCost:     decimal.Zero,
			SavingsVsMinimum: &zeroSavings,
			Notes:            []string{"no active debts detected for analysis"},
		}}
	}

	minimumBudget := decimal.Zero
	for _, debt := range debts {
		minimumBudget = minimumBudget.Add(debt.MinPayment)
	}

	minResult := c.simulateScenario(debts, minimumBudget, valueobject.ScenarioTypeMinimumPayment,
		[]string{"only contractual minimum payments are made on every account"}, nil)

	optimizedBudget := c.optimizedBudget(profile, minimumBudget)
	baseline := minResult.InterestCost
	optimizedResult := c.simulateScenario(debts, optimizedBudget, valueobject.ScenarioTypeOptimizedPlan,
		[]string{"monthly surplus is allocated to the highest-rate balances first"}, &baseline)

	results := []model.ScenarioResult{minResult, optimizedResult}
	results = append(results, c.consolidationScenarios(profile, eligibility, baseline, optimizedBudget)...)
	return results
}

// simulateScenario runs the multi-debt simulator under a budget and shapes
// the outcome into a reported scenario. baselineInterest nil marks the
// scenario as its own baseline (savings 0.00).
func (c *ScenarioComposer) simulateScenario(
	debts []Debt,
	monthlyBudget decimal.Decimal,
	scenarioType valueobject.ScenarioType,
	baseNotes []string,
	baselineInterest *decimal.Decimal,
) model.ScenarioResult {
	if monthlyBudget.LessThanOrEqual(decimal.Zero) {
		return model.ScenarioResult{
			Type:           scenarioType,
			MonthlyPayment: decimal.Zero,
			TotalPaid:      decimal.Zero,
			InterestCost:   decimal.Zero,
			Notes:          append(baseNotes, "insufficient budget to service debts"),
		}
	}

	outcome := SimulatePayoff(debts, monthlyBudget, c.horizonMonths)

	var savings *decimal.Decimal
	if baselineInterest != nil {
		s := baselineInterest.Sub(outcome.TotalInterest).Round(2)
		savings = &s
	} else {
		s := decimal.Zero.Round(2)
		savings = &s
	}

	notes := baseNotes
	if outcome.Months == nil {
		notes = append(notes, "budget does not amortize the debt within the modeled horizon")
	}

	return model.ScenarioResult{
		Type:             scenarioType,
		MonthlyPayment:   monthlyBudget.Round(2),
		PayoffMonths:     outcome.Months,
		TotalPaid:        outcome.TotalPaid.Round(2),
		InterestCost:     outcome.TotalInterest.Round(2),
		SavingsVsMinimum: savings,
		Notes:            notes,
	}
}

// optimizedBudget derives the sustainable monthly budget from cashflow data:
// disposable income less a variability buffer of half the income swing,
// floored at the minimum-payment budget. Without cashflow data the minimum
// budget is the most conservative answer.
func (c *ScenarioComposer) optimizedBudget(profile model.CustomerProfile, minimumBudget decimal.Decimal) decimal.Decimal {
	cashflow := profile.Cashflow
	if cashflow == nil {
		return minimumBudget
	}

	disposable := cashflow.MonthlyIncomeAvg.Sub(cashflow.EssentialExpensesAvg)
	buffer := cashflow.MonthlyIncomeAvg.
		Mul(cashflow.IncomeVariabilityPct.Div(decimal.NewFromInt(100))).
		Mul(decimal.NewFromFloat(0.5))
	budget := disposable.Sub(buffer)
	if budget.LessThan(minimumBudget) {
		return minimumBudget
	}
	return budget.Round(2)
}

// consolidationScenarios emits one scenario per eligible offer in offer
// order, plus a surplus-accelerated variant whenever the optimized budget
// exceeds the consolidation payment and the accelerated run converges. With
// no eligible offers a single explanatory placeholder is emitted instead.
func (c *ScenarioComposer) consolidationScenarios(
	profile model.CustomerProfile,
	eligibility model.EligibilityResult,
	baselineInterest decimal.Decimal,
	optimizedBudget decimal.Decimal,
) []model.ScenarioResult {
	if !eligibility.IsEligible() {
		return []model.ScenarioResult{{
			Type:           valueobject.ScenarioTypeConsolidation,
			MonthlyPayment: decimal.Zero,
			TotalPaid:      decimal.Zero,
			InterestCost:   decimal.Zero,
			Notes:          []string{"no applicable consolidation offers"},
		}}
	}

	consolidatedBalance := profile.ConsolidatedBalance()
	accountCount := len(profile.Cards) + len(profile.Loans)

	var results []model.ScenarioResult
	for _, evaluation := range eligibility.EligibleOffers {
		offer := evaluation.Offer

		term := offer.MaxTermMonths
		if profile.RequestedTermMonths != nil && *profile.RequestedTermMonths < term {
			term = *profile.RequestedTermMonths
		}

		monthlyRate := model.MonthlyRate(offer.NewRatePct)
		payment := model.AmortizedPayment(consolidatedBalance, monthlyRate, term)
		totalPaid := payment.Mul(decimal.NewFromInt(int64(term)))
		interestCost := totalPaid.Sub(consolidatedBalance)
		savings := baselineInterest.Sub(interestCost).Round(2)

		notes := []string{
			fmt.Sprintf("consolidates %d accounts into a single obligation", accountCount),
			fmt.Sprintf("offer %s at %s%% over %d months", offer.OfferID, offer.NewRatePct.String(), term),
		}
		if profile.RequestedTermMonths != nil && *profile.RequestedTermMonths > offer.MaxTermMonths {
			notes = append(notes, "requested term adjusted to the offer maximum")
		}

		payoff := term
		results = append(results, model.ScenarioResult{
			Type:                 valueobject.ScenarioTypeConsolidation,
			MonthlyPayment:       payment.Round(2),
			PayoffMonths:         &payoff,
			TotalPaid:            totalPaid.Round(2),
			InterestCost:         interestCost.Round(2),
			SavingsVsMinimum:     &savings,
			Notes:                notes,
			ConsolidationOfferID: offer.OfferID,
		})

		if optimizedBudget.GreaterThan(payment) {
			accel := SimulateSingleDebt(consolidatedBalance, monthlyRate, optimizedBudget, offer.MaxTermMonths)
			if accel.Months != nil {
				accelSavings := baselineInterest.Sub(accel.TotalInterest).Round(2)
				incremental := interestCost.Sub(accel.TotalInterest).Round(2)
				results = append(results, model.ScenarioResult{
					Type:             valueobject.ScenarioTypeConsolidationSurplus,
					MonthlyPayment:   optimizedBudget.Round(2),
					PayoffMonths:     accel.Months,
					TotalPaid:        accel.TotalPaid.Round(2),
					InterestCost:     accel.TotalInterest.Round(2),
					SavingsVsMinimum: &accelSavings,
					Notes: []string{
						fmt.Sprintf("consolidates %d accounts", accountCount),
						fmt.Sprintf("offer %s with the monthly surplus applied", offer.OfferID),
						fmt.Sprintf("additional savings vs base consolidation: %s", incremental.StringFixed(2)),
					},
					ConsolidationOfferID: offer.OfferID,
				})
			}
		}
	}

	return results
}
