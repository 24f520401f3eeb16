package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Consolidation offer
// ---------------------------------------------------------------------------

const maxOfferTermMonths = 60

// Offer is one entry in the consolidation offer catalog. Rules holds the
// structured predicate parsed from the free-text Conditions.
type Offer struct {
	OfferID                string
	ProductTypesEligible   []valueobject.ProductType
	MaxConsolidatedBalance decimal.Decimal
	NewRatePct             decimal.Decimal
	MaxTermMonths          int
	Conditions             string
	Rules                  valueobject.RuleConfig
}

// NewOffer validates and constructs an Offer, parsing its conditions into a
// RuleConfig.
func NewOffer(
	offerID string,
	productTypesEligible []valueobject.ProductType,
	maxConsolidatedBalance decimal.Decimal,
	newRatePct decimal.Decimal,
	maxTermMonths int,
	conditions string,
) (Offer, error) {
	if offerID == "" {
		return Offer{}, errors.New("offer ID is required")
	}
	if len(productTypesEligible) == 0 {
		return Offer{}, fmt.Errorf("offer %s must define eligible product types", offerID)
	}
	for _, pt := range productTypesEligible {
		if pt.IsZero() || pt.Equal(valueobject.ProductTypeOther) {
			return Offer{}, fmt.Errorf("offer %s: %w: %q", offerID, valueobject.ErrUnsupportedProductType, pt)
		}
	}
	if newRatePct.LessThanOrEqual(decimal.Zero) {
		return Offer{}, fmt.Errorf("offer %s: new rate must be positive", offerID)
	}
	if maxConsolidatedBalance.IsNegative() {
		return Offer{}, fmt.Errorf("offer %s: max consolidated balance must not be negative", offerID)
	}
	if maxTermMonths <= 0 || maxTermMonths > maxOfferTermMonths {
		return Offer{}, fmt.Errorf("offer %s: max term months must be within 1-%d", offerID, maxOfferTermMonths)
	}

	return Offer{
		OfferID:                offerID,
		ProductTypesEligible:   productTypesEligible,
		MaxConsolidatedBalance: maxConsolidatedBalance,
		NewRatePct:             newRatePct,
		MaxTermMonths:          maxTermMonths,
		Conditions:             conditions,
		Rules:                  valueobject.ParseRuleConfig(conditions),
	}, nil
}

// Less implements the offer total order: ascending rate, then descending
// term, then offer ID. The head of a sorted catalog is "the best offer".
func (o Offer) Less(other Offer) bool {
	if cmp := o.NewRatePct.Cmp(other.NewRatePct); cmp != 0 {
		return cmp < 0
	}
	if o.MaxTermMonths != other.MaxTermMonths {
		return o.MaxTermMonths > other.MaxTermMonths
	}
	return o.OfferID < other.OfferID
}

// SortOffers sorts offers in place by the offer total order.
func SortOffers(offers []Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Less(offers[j])
	})
}
