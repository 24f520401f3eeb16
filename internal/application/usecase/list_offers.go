package usecase

import (
	"context"
	"fmt"

	"github.com/finrestructure/consolidation-service/internal/application/dto"
	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/port"
)

// ListOffersUseCase returns the consolidation offer catalog in rate order.
type ListOffersUseCase struct {
	offers port.OfferRepository
}

// NewListOffersUseCase wires dependencies.
func NewListOffersUseCase(offers port.OfferRepository) *ListOffersUseCase {
	return &ListOffersUseCase{offers: offers}
}

// Execute lists all catalog offers sorted best-first.
func (uc *ListOffersUseCase) Execute(ctx context.Context) ([]dto.OfferSummary, error) {
	offers, err := uc.offers.Offers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load offers: %w", err)
	}
	model.SortOffers(offers)
	return dto.NewOfferSummaries(offers), nil
}
