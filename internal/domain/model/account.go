package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Account records (immutable facts)
// ---------------------------------------------------------------------------

// CardAccount is an immutable credit-card account record.
type CardAccount struct {
	AccountID     string
	CustomerID    string
	Balance       decimal.Decimal
	DaysPastDue   int
	AnnualRatePct decimal.Decimal
	MinPaymentPct decimal.Decimal
	PaymentDueDay int
}

// NewCardAccount validates and constructs a CardAccount. Validation failures
// are permanent construction errors, never partially constructed records.
func NewCardAccount(
	accountID, customerID string,
	balance decimal.Decimal,
	daysPastDue int,
	annualRatePct, minPaymentPct decimal.Decimal,
	paymentDueDay int,
) (CardAccount, error) {
	if accountID == "" {
		return CardAccount{}, errors.New("card account ID is required")
	}
	if customerID == "" {
		return CardAccount{}, fmt.Errorf("card %s: customer ID is required", accountID)
	}
	if balance.IsNegative() {
		return CardAccount{}, fmt.Errorf("card %s: balance must not be negative", accountID)
	}
	if daysPastDue < 0 {
		return CardAccount{}, fmt.Errorf("card %s: days past due must not be negative", accountID)
	}
	if annualRatePct.IsNegative() {
		return CardAccount{}, fmt.Errorf("card %s: annual rate must not be negative", accountID)
	}
	if minPaymentPct.IsNegative() {
		return CardAccount{}, fmt.Errorf("card %s: minimum payment percent must not be negative", accountID)
	}

	return CardAccount{
		AccountID:     accountID,
		CustomerID:    customerID,
		Balance:       balance,
		DaysPastDue:   daysPastDue,
		AnnualRatePct: annualRatePct,
		MinPaymentPct: minPaymentPct,
		PaymentDueDay: paymentDueDay,
	}, nil
}

// ProductType always reports card for card accounts.
func (c CardAccount) ProductType() valueobject.ProductType {
	return valueobject.ProductTypeCard
}

// LoanAccount is an immutable loan account record. The product type
// distinguishes personal, micro, and generic loans.
type LoanAccount struct {
	AccountID           string
	CustomerID          string
	Balance             decimal.Decimal
	DaysPastDue         int
	ProductType         valueobject.ProductType
	AnnualRatePct       decimal.Decimal
	RemainingTermMonths int
	Collateral          bool
}

// NewLoanAccount validates and constructs a LoanAccount.
func NewLoanAccount(
	accountID, customerID string,
	balance decimal.Decimal,
	daysPastDue int,
	productType valueobject.ProductType,
	annualRatePct decimal.Decimal,
	remainingTermMonths int,
	collateral bool,
) (LoanAccount, error) {
	if accountID == "" {
		return LoanAccount{}, errors.New("loan account ID is required")
	}
	if customerID == "" {
		return LoanAccount{}, fmt.Errorf("loan %s: customer ID is required", accountID)
	}
	if balance.IsNegative() {
		return LoanAccount{}, fmt.Errorf("loan %s: balance must not be negative", accountID)
	}
	if daysPastDue < 0 {
		return LoanAccount{}, fmt.Errorf("loan %s: days past due must not be negative", accountID)
	}
	if productType.IsZero() || productType.Equal(valueobject.ProductTypeOther) || productType.Equal(valueobject.ProductTypeCard) {
		return LoanAccount{}, fmt.Errorf("loan %s: %w: %q", accountID, valueobject.ErrUnsupportedProductType, productType)
	}
	if annualRatePct.IsNegative() {
		return LoanAccount{}, fmt.Errorf("loan %s: annual rate must not be negative", accountID)
	}
	if remainingTermMonths <= 0 {
		return LoanAccount{}, fmt.Errorf("loan %s: remaining term months must be positive", accountID)
	}

	return LoanAccount{
		AccountID:           accountID,
		CustomerID:          customerID,
		Balance:             balance,
		DaysPastDue:         daysPastDue,
		ProductType:         productType,
		AnnualRatePct:       annualRatePct,
		RemainingTermMonths: remainingTermMonths,
		Collateral:          collateral,
	}, nil
}
