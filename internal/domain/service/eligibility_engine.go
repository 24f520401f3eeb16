package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// Rule names emitted in evaluations. Stable: downstream consumers key off
// these strings.
const (
	RuleProductTypeMatch       = "product_type_match"
	RuleMaxConsolidatedBalance = "max_consolidated_balance"
	RuleMaxTermMonths          = "max_term_months"
	RuleMinCreditScore         = "min_credit_score"
	RuleMaxDaysPastDue         = "max_days_past_due"
	RuleNoActiveDelinquencies  = "no_active_delinquencies"
)

// EligibilityEngine scores customers against the consolidation offer
// catalog. The catalog is sorted once at construction by the offer total
// order and treated as immutable afterwards.
type EligibilityEngine struct {
	offers []model.Offer
}

// NewEligibilityEngine creates an engine over a sorted copy of the catalog.
func NewEligibilityEngine(offers []model.Offer) *EligibilityEngine {
	sorted := make([]model.Offer, len(offers))
	copy(sorted, offers)
	model.SortOffers(sorted)
	return &EligibilityEngine{offers: sorted}
}

// Offers returns a copy of the sorted catalog.
func (e *EligibilityEngine) Offers() []model.Offer {
	out := make([]model.Offer, len(e.offers))
	copy(out, e.offers)
	return out
}

// Evaluate runs every offer's rule sequence against the customer and splits
// the catalog into eligible and rejected evaluations, each sorted by the
// offer total order. An offer is eligible iff every rule that was evaluated
// for it passed.
func (e *EligibilityEngine) Evaluate(customer model.CustomerProfile) model.EligibilityResult {
	balance := customer.ConsolidatedBalance()
	risk := customer.RiskIndicators()

	var eligible, rejected []model.OfferEvaluation
	for _, offer := range e.offers {
		ruleResults := evaluateOfferRules(offer, customer, balance, risk)
		passed := true
		for _, rule := range ruleResults {
			if !rule.Passed {
				passed = false
				break
			}
		}
		evaluation := model.OfferEvaluation{Offer: offer, Passed: passed, RuleResults: ruleResults}
		if passed {
			eligible = append(eligible, evaluation)
		} else {
			rejected = append(rejected, evaluation)
		}
	}

	return model.EligibilityResult{
		CustomerID:          customer.CustomerID,
		RequestedTermMonths: customer.RequestedTermMonths,
		EligibleOffers:      eligible,
		RejectedOffers:      rejected,
	}
}

// evaluateOfferRules yields the per-rule evidence in a fixed order. Optional
// rules (term cap, score, DPD, delinquency) are skipped entirely when
// neither the customer nor the offer supplies the data that triggers them;
// a missing credit score with a score rule present is a hard fail with
// explicit evidence.
func evaluateOfferRules(
	offer model.Offer,
	customer model.CustomerProfile,
	balance decimal.Decimal,
	risk model.RiskIndicators,
) []model.RuleEvaluation {
	results := make([]model.RuleEvaluation, 0, 6)

	owned := customer.ProductTypesOwned()
	typeMatch := false
	for _, pt := range offer.ProductTypesEligible {
		if _, ok := owned[pt]; ok {
			typeMatch = true
			break
		}
	}
	ownedNames := sortedTypeNames(owned)
	eligibleNames := typeNames(offer.ProductTypesEligible)
	detail := fmt.Sprintf("missing eligible product types [%s]", strings.Join(eligibleNames, " "))
	if typeMatch {
		detail = fmt.Sprintf("products owned [%s] match eligible [%s]",
			strings.Join(ownedNames, " "), strings.Join(eligibleNames, " "))
	}
	results = append(results, model.RuleEvaluation{
		Rule:   RuleProductTypeMatch,
		Passed: typeMatch,
		Detail: detail,
	})

	balancePass := balance.LessThanOrEqual(offer.MaxConsolidatedBalance)
	detail = fmt.Sprintf("balance %s exceeds %s",
		balance.StringFixed(2), offer.MaxConsolidatedBalance.StringFixed(2))
	if balancePass {
		detail = fmt.Sprintf("balance %s <= %s",
			balance.StringFixed(2), offer.MaxConsolidatedBalance.StringFixed(2))
	}
	results = append(results, model.RuleEvaluation{
		Rule:   RuleMaxConsolidatedBalance,
		Passed: balancePass,
		Detail: detail,
	})

	if customer.RequestedTermMonths != nil {
		term := *customer.RequestedTermMonths
		termPass := term <= offer.MaxTermMonths
		detail = fmt.Sprintf("term %d exceeds %d", term, offer.MaxTermMonths)
		if termPass {
			detail = fmt.Sprintf("term %d <= %d", term, offer.MaxTermMonths)
		}
		results = append(results, model.RuleEvaluation{
			Rule:   RuleMaxTermMonths,
			Passed: termPass,
			Detail: detail,
		})
	}

	if minScore := offer.Rules.MinCreditScore; minScore != nil {
		switch score := risk.LatestCreditScore; {
		case score == nil:
			results = append(results, model.RuleEvaluation{
				Rule:   RuleMinCreditScore,
				Passed: false,
				Detail: "missing credit score data",
			})
		case *score >= *minScore:
			results = append(results, model.RuleEvaluation{
				Rule:   RuleMinCreditScore,
				Passed: true,
				Detail: fmt.Sprintf("score %d >= %d", *score, *minScore),
			})
		default:
			results = append(results, model.RuleEvaluation{
				Rule:   RuleMinCreditScore,
				Passed: false,
				Detail: fmt.Sprintf("score %d < %d", *score, *minScore),
			})
		}
	}

	if maxDPD := offer.Rules.MaxDaysPastDue; maxDPD != nil {
		dpdPass := risk.MaxDaysPastDue <= *maxDPD
		detail = fmt.Sprintf("max DPD %d > %d", risk.MaxDaysPastDue, *maxDPD)
		if dpdPass {
			detail = fmt.Sprintf("max DPD %d <= %d", risk.MaxDaysPastDue, *maxDPD)
		}
		results = append(results, model.RuleEvaluation{
			Rule:   RuleMaxDaysPastDue,
			Passed: dpdPass,
			Detail: detail,
		})
	}

	if offer.Rules.DisallowActiveDelinquencies {
		delinquencyPass := !risk.HasActiveDelinquency
		detail = "active delinquency present"
		if delinquencyPass {
			detail = "no active delinquencies"
		}
		results = append(results, model.RuleEvaluation{
			Rule:   RuleNoActiveDelinquencies,
			Passed: delinquencyPass,
			Detail: detail,
		})
	}

	return results
}

func sortedTypeNames(types map[valueobject.ProductType]struct{}) []string {
	names := make([]string, 0, len(types))
	for pt := range types {
		names = append(names, pt.String())
	}
	sort.Strings(names)
	return names
}

func typeNames(types []valueobject.ProductType) []string {
	names := make([]string, 0, len(types))
	for _, pt := range types {
		names = append(names, pt.String())
	}
	sort.Strings(names)
	return names
}
