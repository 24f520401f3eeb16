package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// OfferRepo implements port.OfferRepository on PostgreSQL.
type OfferRepo struct {
	pool *pgxpool.Pool
}

// NewOfferRepo creates a new PostgreSQL-backed offer repository.
func NewOfferRepo(pool *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

// Offers loads and validates the full offer catalog.
func (r *OfferRepo) Offers(ctx context.Context) ([]model.Offer, error) {
	query := `
		SELECT offer_id, product_types_eligible, max_consolidated_balance,
		       new_rate_pct, max_term_months, conditions
		FROM offers
		ORDER BY offer_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		var (
			offerID, conditions string
			rawTypes            []string
			maxBalance, rate    decimal.Decimal
			maxTermMonths       int
		)
		if err := rows.Scan(&offerID, &rawTypes, &maxBalance, &rate, &maxTermMonths, &conditions); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}

		types := make([]valueobject.ProductType, 0, len(rawTypes))
		for _, raw := range rawTypes {
			pt := valueobject.ParseProductType(raw)
			if pt.Equal(valueobject.ProductTypeOther) {
				return nil, fmt.Errorf("offer %s has unsupported product type %q", offerID, raw)
			}
			types = append(types, pt)
		}

		offer, err := model.NewOffer(offerID, types, maxBalance, rate, maxTermMonths, conditions)
		if err != nil {
			return nil, fmt.Errorf("load offer: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}
