package event

import (
	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const AggregateTypeCustomer = "Customer"

// EvaluationCompleted is emitted after a customer's consolidation
// eligibility has been evaluated and repayment scenarios composed.
type EvaluationCompleted struct {
	events.BaseEvent
	CustomerID          string          `json:"customer_id"`
	Eligible            bool            `json:"eligible"`
	BestOfferID         string          `json:"best_offer_id,omitempty"`
	EligibleOffers      int             `json:"eligible_offers"`
	Scenarios           int             `json:"scenarios"`
	ConsolidatedBalance decimal.Decimal `json:"consolidated_balance"`
}

// NewEvaluationCompleted creates an EvaluationCompleted domain event.
func NewEvaluationCompleted(customerID string, eligible bool, bestOfferID string, eligibleOffers, scenarios int, consolidatedBalance decimal.Decimal) EvaluationCompleted {
	return EvaluationCompleted{
		BaseEvent:           events.NewBaseEvent("consolidation.evaluation.completed", customerID, AggregateTypeCustomer),
		CustomerID:          customerID,
		Eligible:            eligible,
		BestOfferID:         bestOfferID,
		EligibleOffers:      eligibleOffers,
		Scenarios:           scenarios,
		ConsolidatedBalance: consolidatedBalance,
	}
}
