package model

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Customer profile and derived risk indicators
// ---------------------------------------------------------------------------

// CashflowSummary aggregates a customer's monthly income and spending.
type CashflowSummary struct {
	MonthlyIncomeAvg     decimal.Decimal
	IncomeVariabilityPct decimal.Decimal
	EssentialExpensesAvg decimal.Decimal
}

// CreditScoreRecord is one point in a customer's credit score history.
type CreditScoreRecord struct {
	Score      int
	RecordedOn time.Time
}

// RiskIndicators is derived fresh from the profile on each call and never
// persisted. A nil LatestCreditScore means the customer has no score history.
type RiskIndicators struct {
	LatestCreditScore    *int
	CreditScoreDate      *time.Time
	MaxDaysPastDue       int
	HasActiveDelinquency bool
}

// CustomerProfile is the immutable input to eligibility evaluation and
// scenario composition. Cashflow and RequestedTermMonths are optional.
type CustomerProfile struct {
	CustomerID          string
	RequestedTermMonths *int
	Cards               []CardAccount
	Loans               []LoanAccount
	Cashflow            *CashflowSummary
	CreditHistory       []CreditScoreRecord
}

// NewCustomerProfile validates and constructs a CustomerProfile.
func NewCustomerProfile(
	customerID string,
	requestedTermMonths *int,
	cards []CardAccount,
	loans []LoanAccount,
	cashflow *CashflowSummary,
	creditHistory []CreditScoreRecord,
) (CustomerProfile, error) {
	if customerID == "" {
		return CustomerProfile{}, errors.New("customer ID is required")
	}
	if requestedTermMonths != nil && *requestedTermMonths <= 0 {
		return CustomerProfile{}, errors.New("requested term months must be positive when provided")
	}

	return CustomerProfile{
		CustomerID:          customerID,
		RequestedTermMonths: requestedTermMonths,
		Cards:               cards,
		Loans:               loans,
		Cashflow:            cashflow,
		CreditHistory:       creditHistory,
	}, nil
}

// ProductTypesOwned returns the set of product categories the customer holds.
func (p CustomerProfile) ProductTypesOwned() map[valueobject.ProductType]struct{} {
	types := make(map[valueobject.ProductType]struct{})
	if len(p.Cards) > 0 {
		types[valueobject.ProductTypeCard] = struct{}{}
	}
	for _, loan := range p.Loans {
		types[loan.ProductType] = struct{}{}
	}
	return types
}

// ConsolidatedBalance is the sum of all card and loan balances.
func (p CustomerProfile) ConsolidatedBalance() decimal.Decimal {
	total := decimal.Zero
	for _, card := range p.Cards {
		total = total.Add(card.Balance)
	}
	for _, loan := range p.Loans {
		total = total.Add(loan.Balance)
	}
	return total
}

// RiskIndicators derives the customer's current risk picture: the most
// recent credit score (by record date), the worst days-past-due across all
// accounts, and whether any account is currently delinquent.
func (p CustomerProfile) RiskIndicators() RiskIndicators {
	var latest *CreditScoreRecord
	if len(p.CreditHistory) > 0 {
		history := make([]CreditScoreRecord, len(p.CreditHistory))
		copy(history, p.CreditHistory)
		sort.Slice(history, func(i, j int) bool {
			return history[i].RecordedOn.After(history[j].RecordedOn)
		})
		latest = &history[0]
	}

	maxDPD := 0
	for _, card := range p.Cards {
		if card.DaysPastDue > maxDPD {
			maxDPD = card.DaysPastDue
		}
	}
	for _, loan := range p.Loans {
		if loan.DaysPastDue > maxDPD {
			maxDPD = loan.DaysPastDue
		}
	}

	indicators := RiskIndicators{
		MaxDaysPastDue:       maxDPD,
		HasActiveDelinquency: maxDPD > 0,
	}
	if latest != nil {
		score := latest.Score
		recordedOn := latest.RecordedOn
		indicators.LatestCreditScore = &score
		indicators.CreditScoreDate = &recordedOn
	}
	return indicators
}

// HasDebts reports whether the customer holds any card or loan accounts.
func (p CustomerProfile) HasDebts() bool {
	return len(p.Cards) > 0 || len(p.Loans) > 0
}
