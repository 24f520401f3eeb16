package model

import (
	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Scenario results
// ---------------------------------------------------------------------------

// ScenarioResult is the projected outcome of one repayment strategy. A nil
// PayoffMonths means the scenario did not converge within its horizon; a nil
// SavingsVsMinimum means no minimum-payment baseline exists for comparison.
// ConsolidationOfferID is set only for consolidation variants. All monetary
// fields are quantized to two decimals at the point of reporting.
type ScenarioResult struct {
	Type                 valueobject.ScenarioType
	MonthlyPayment       decimal.Decimal
	PayoffMonths         *int
	TotalPaid            decimal.Decimal
	InterestCost         decimal.Decimal
	SavingsVsMinimum     *decimal.Decimal
	Notes                []string
	ConsolidationOfferID string
}

// ScenarioSummary pairs the eligibility verdict with the ordered scenario
// projections built from it.
type ScenarioSummary struct {
	Eligibility EligibilityResult
	Scenarios   []ScenarioResult
}
