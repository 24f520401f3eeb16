package dto

import (
	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// EvaluationRequest carries the data needed to evaluate a customer for
// debt consolidation.
type EvaluationRequest struct {
	CustomerID          string `json:"customer_id"`
	RequestedTermMonths *int   `json:"requested_term_months,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// RuleResult is the external representation of a single eligibility rule
// verdict.
type RuleResult struct {
	Rule   string `json:"rule"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// OfferEvaluation is the external representation of one offer's eligibility
// verdict.
type OfferEvaluation struct {
	OfferID       string          `json:"offer_id"`
	Passed        bool            `json:"passed"`
	Reasons       []string        `json:"reasons"`
	RuleResults   []RuleResult    `json:"rule_results"`
	NewRatePct    decimal.Decimal `json:"new_rate_pct"`
	MaxTermMonths int             `json:"max_term_months"`
}

// Scenario is the external representation of one repayment scenario
// projection.
type Scenario struct {
	ScenarioType         string           `json:"scenario_type"`
	MonthlyPayment       decimal.Decimal  `json:"monthly_payment"`
	PayoffMonths         *int             `json:"payoff_months"`
	TotalPaid            decimal.Decimal  `json:"total_paid"`
	InterestCost         decimal.Decimal  `json:"interest_cost"`
	SavingsVsMinimum     *decimal.Decimal `json:"savings_vs_minimum"`
	Notes                []string         `json:"notes"`
	ConsolidationOfferID string           `json:"consolidation_offer_id,omitempty"`
}

// EvaluationResponse is the full evaluation result for one customer.
type EvaluationResponse struct {
	CustomerID          string            `json:"customer_id"`
	ConsolidatedBalance decimal.Decimal   `json:"consolidated_balance"`
	IsEligible          bool              `json:"is_eligible"`
	BestOfferID         *string           `json:"best_offer_id"`
	EligibleOffers      []OfferEvaluation `json:"eligible_offers"`
	RejectedOffers      []OfferEvaluation `json:"rejected_offers"`
	Scenarios           []Scenario        `json:"scenarios"`
}

// OfferSummary is the external representation of one catalog offer.
type OfferSummary struct {
	OfferID                string          `json:"offer_id"`
	ProductTypesEligible   []string        `json:"product_types_eligible"`
	MaxConsolidatedBalance decimal.Decimal `json:"max_consolidated_balance"`
	NewRatePct             decimal.Decimal `json:"new_rate_pct"`
	MaxTermMonths          int             `json:"max_term_months"`
	Conditions             string          `json:"conditions,omitempty"`
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

// NewEvaluationResponse maps a domain scenario summary to its external
// representation. Monetary values are quantized to two decimals.
func NewEvaluationResponse(summary model.ScenarioSummary, consolidatedBalance decimal.Decimal) EvaluationResponse {
	resp := EvaluationResponse{
		CustomerID:          summary.Eligibility.CustomerID,
		ConsolidatedBalance: consolidatedBalance.Round(2),
		IsEligible:          summary.Eligibility.IsEligible(),
		EligibleOffers:      mapOfferEvaluations(summary.Eligibility.EligibleOffers),
		RejectedOffers:      mapOfferEvaluations(summary.Eligibility.RejectedOffers),
		Scenarios:           mapScenarios(summary.Scenarios),
	}
	if best := summary.Eligibility.BestOffer(); best != nil {
		id := best.Offer.OfferID
		resp.BestOfferID = &id
	}
	return resp
}

// NewOfferSummaries maps catalog offers to their external representation.
func NewOfferSummaries(offers []model.Offer) []OfferSummary {
	summaries := make([]OfferSummary, 0, len(offers))
	for _, offer := range offers {
		types := make([]string, 0, len(offer.ProductTypesEligible))
		for _, pt := range offer.ProductTypesEligible {
			types = append(types, pt.String())
		}
		summaries = append(summaries, OfferSummary{
			OfferID:                offer.OfferID,
			ProductTypesEligible:   types,
			MaxConsolidatedBalance: offer.MaxConsolidatedBalance,
			NewRatePct:             offer.NewRatePct,
			MaxTermMonths:          offer.MaxTermMonths,
			Conditions:             offer.Conditions,
		})
	}
	return summaries
}

func mapOfferEvaluations(evaluations []model.OfferEvaluation) []OfferEvaluation {
	result := make([]OfferEvaluation, 0, len(evaluations))
	for _, eval := range evaluations {
		rules := make([]RuleResult, 0, len(eval.RuleResults))
		for _, rule := range eval.RuleResults {
			rules = append(rules, RuleResult{
				Rule:   rule.Rule,
				Passed: rule.Passed,
				Detail: rule.Detail,
			})
		}
		result = append(result, OfferEvaluation{
			OfferID:       eval.Offer.OfferID,
			Passed:        eval.Passed,
			Reasons:       eval.Reasons(),
			RuleResults:   rules,
			NewRatePct:    eval.Offer.NewRatePct,
			MaxTermMonths: eval.Offer.MaxTermMonths,
		})
	}
	return result
}

func mapScenarios(scenarios []model.ScenarioResult) []Scenario {
	result := make([]Scenario, 0, len(scenarios))
	for _, sc := range scenarios {
		out := Scenario{
			ScenarioType:         sc.Type.String(),
			MonthlyPayment:       sc.MonthlyPayment,
			PayoffMonths:         sc.PayoffMonths,
			TotalPaid:            sc.TotalPaid,
			InterestCost:         sc.InterestCost,
			Notes:                sc.Notes,
			ConsolidationOfferID: sc.ConsolidationOfferID,
		}
		if sc.SavingsVsMinimum != nil {
			savings := *sc.SavingsVsMinimum
			out.SavingsVsMinimum = &savings
		}
		if out.Notes == nil {
			out.Notes = []string{}
		}
		result = append(result, out)
	}
	return result
}
