package model

// ---------------------------------------------------------------------------
// Eligibility evaluation results
// ---------------------------------------------------------------------------

// RuleEvaluation is the outcome of a single eligibility rule. Detail is a
// deterministic evidence string carrying the compared values.
type RuleEvaluation struct {
	Rule   string
	Passed bool
	Detail string
}

// OfferEvaluation is one offer's verdict: the conjunction of every rule that
// was evaluated for it, in evaluation order.
type OfferEvaluation struct {
	Offer       Offer
	Passed      bool
	RuleResults []RuleEvaluation
}

// Reasons returns the evidence strings, passing rules first.
func (e OfferEvaluation) Reasons() []string {
	reasons := make([]string, 0, len(e.RuleResults))
	for _, rule := range e.RuleResults {
		if rule.Passed && rule.Detail != "" {
			reasons = append(reasons, rule.Detail)
		}
	}
	for _, rule := range e.RuleResults {
		if !rule.Passed && rule.Detail != "" {
			reasons = append(reasons, rule.Detail)
		}
	}
	return reasons
}

// EligibilityResult is the full catalog verdict for one customer. Both offer
// lists are sorted by the offer total order.
type EligibilityResult struct {
	CustomerID          string
	RequestedTermMonths *int
	EligibleOffers      []OfferEvaluation
	RejectedOffers      []OfferEvaluation
}

// BestOffer returns the head of the eligible list, or nil when no offer
// passed.
func (r EligibilityResult) BestOffer() *OfferEvaluation {
	if len(r.EligibleOffers) == 0 {
		return nil
	}
	return &r.EligibleOffers[0]
}

// IsEligible reports whether at least one offer passed.
func (r EligibilityResult) IsEligible() bool {
	return len(r.EligibleOffers) > 0
}
