package port

import (
	"context"

	"github.com/finrestructure/consolidation-service/internal/domain/event"
	"github.com/finrestructure/consolidation-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ProfileRepository assembles customer profiles from the underlying data
// source. An unknown customer yields an empty profile, not an error;
// malformed source records yield construction errors.
type ProfileRepository interface {
	BuildCustomerProfile(ctx context.Context, customerID string, requestedTermMonths *int) (model.CustomerProfile, error)
}

// OfferRepository loads the pre-validated consolidation offer catalog.
type OfferRepository interface {
	Offers(ctx context.Context) ([]model.Offer, error)
}

// ---------------------------------------------------------------------------
// Cache port
// ---------------------------------------------------------------------------

// EvaluationCache caches serialized evaluation responses keyed by customer
// and requested term.
type EvaluationCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
