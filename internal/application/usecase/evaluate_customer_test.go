package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrestructure/consolidation-service/internal/application/dto"
	"github.com/finrestructure/consolidation-service/internal/application/usecase"
	"github.com/finrestructure/consolidation-service/internal/domain/event"
	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/service"
	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

type mockProfileRepository struct {
	buildFunc func(ctx context.Context, customerID string, requestedTermMonths *int) (model.CustomerProfile, error)
}

func (m *mockProfileRepository) BuildCustomerProfile(ctx context.Context, customerID string, requestedTermMonths *int) (model.CustomerProfile, error) {
	return m.buildFunc(ctx, customerID, requestedTermMonths)
}

type mockOfferRepository struct {
	offersFunc func(ctx context.Context) ([]model.Offer, error)
}

func (m *mockOfferRepository) Offers(ctx context.Context) ([]model.Offer, error) {
	return m.offersFunc(ctx)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	return raw, ok
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOffer(t *testing.T, id string, rate float64, term int, maxBalance int64) model.Offer {
	t.Helper()
	offer, err := model.NewOffer(
		id,
		[]valueobject.ProductType{valueobject.ProductTypeCard, valueobject.ProductTypePersonal},
		decimal.NewFromInt(maxBalance),
		decimal.NewFromFloat(rate),
		term,
		"",
	)
	require.NoError(t, err)
	return offer
}

func testProfile(t *testing.T, customerID string) model.CustomerProfile {
	t.Helper()
	card, err := model.NewCardAccount(
		"CARD-1", customerID,
		decimal.NewFromInt(5000), 0,
		decimal.NewFromInt(36), decimal.NewFromInt(5), 15,
	)
	require.NoError(t, err)

	profile, err := model.NewCustomerProfile(customerID, nil,
		[]model.CardAccount{card}, nil,
		&model.CashflowSummary{
			MonthlyIncomeAvg:     decimal.NewFromInt(3000),
			IncomeVariabilityPct: decimal.NewFromInt(10),
			EssentialExpensesAvg: decimal.NewFromInt(1800),
		},
		nil,
	)
	require.NoError(t, err)
	return profile
}

func TestEvaluateCustomerUseCase_Execute(t *testing.T) {
	t.Run("evaluates an eligible customer end to end", func(t *testing.T) {
		profile := testProfile(t, "CU-1001")
		profiles := &mockProfileRepository{
			buildFunc: func(_ context.Context, customerID string, _ *int) (model.CustomerProfile, error) {
				assert.Equal(t, "CU-1001", customerID)
				return profile, nil
			},
		}
		engine := service.NewEligibilityEngine([]model.Offer{testOffer(t, "OF-1", 15, 24, 10000)})
		publisher := &capturingPublisher{}

		uc := usecase.NewEvaluateCustomerUseCase(
			profiles, engine, service.NewScenarioComposer(),
			nil, publisher, nil, discardLogger(),
		)

		resp, err := uc.Execute(context.Background(), dto.EvaluationRequest{CustomerID: "CU-1001"})

		require.NoError(t, err)
		assert.Equal(t, "CU-1001", resp.CustomerID)
		assert.True(t, resp.IsEligible)
		require.NotNil(t, resp.BestOfferID)
		assert.Equal(t, "OF-1", *resp.BestOfferID)
		assert.True(t, decimal.NewFromInt(5000).Equal(resp.ConsolidatedBalance))
		assert.NotEmpty(t, resp.Scenarios)

		require.Len(t, publisher.events, 1)
		completed, ok := publisher.events[0].(event.EvaluationCompleted)
		require.True(t, ok)
		assert.Equal(t, "CU-1001", completed.CustomerID)
		assert.True(t, completed.Eligible)
		assert.Equal(t, "OF-1", completed.BestOfferID)
	})

	t.Run("serves the second identical request from cache", func(t *testing.T) {
		calls := 0
		profiles := &mockProfileRepository{
			buildFunc: func(_ context.Context, _ string, _ *int) (model.CustomerProfile, error) {
				calls++
				return testProfile(t, "CU-1001"), nil
			},
		}
		engine := service.NewEligibilityEngine([]model.Offer{testOffer(t, "OF-1", 15, 24, 10000)})
		cache := newMemoryCache()

		uc := usecase.NewEvaluateCustomerUseCase(
			profiles, engine, service.NewScenarioComposer(),
			cache, nil, nil, discardLogger(),
		)

		first, err := uc.Execute(context.Background(), dto.EvaluationRequest{CustomerID: "CU-1001"})
		require.NoError(t, err)
		second, err := uc.Execute(context.Background(), dto.EvaluationRequest{CustomerID: "CU-1001"})
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first.CustomerID, second.CustomerID)
		assert.Equal(t, first.IsEligible, second.IsEligible)
		assert.Equal(t, len(first.Scenarios), len(second.Scenarios))
	})

	t.Run("requested term is part of the cache key", func(t *testing.T) {
		calls := 0
		profiles := &mockProfileRepository{
			buildFunc: func(_ context.Context, _ string, _ *int) (model.CustomerProfile, error) {
				calls++
				return testProfile(t, "CU-1001"), nil
			},
		}
		engine := service.NewEligibilityEngine([]model.Offer{testOffer(t, "OF-1", 15, 24, 10000)})
		cache := newMemoryCache()

		uc := usecase.NewEvaluateCustomerUseCase(
			profiles, engine, service.NewScenarioComposer(),
			cache, nil, nil, discardLogger(),
		)

		term := 12
		_, err := uc.Execute(context.Background(), dto.EvaluationRequest{CustomerID: "CU-1001"})
		require.NoError(t, err)
		_, err = uc.Execute(context.Background(), dto.EvaluationRequest{CustomerID: "CU-1001", RequestedTermMonths: &term})
		require.NoError(t, err)

		assert.Equal(t, 2, calls)
	})

	t.Run("fails without a customer ID", func(t *testing.T) {
		uc := usecase.NewEvaluateCustomerUseCase(
			&mockProfileRepository{}, service.NewEligibilityEngine(nil), service.NewScenarioComposer(),
			nil, nil, nil, discardLogger(),
		)

		_, err := uc.Execute(context.Background(), dto.EvaluationRequest{})

		require.ErrorIs(t, err, usecase.ErrCustomerIDRequired)
	})

	t.Run("fails on non-positive requested term", func(t *testing.T) {
		uc := usecase.NewEvaluateCustomerUseCase(
			&mockProfileRepository{}, service.NewEligibilityEngine(nil), service.NewScenarioComposer(),
			nil, nil, nil, discardLogger(),
		)

		term := 0
		_, err := uc.Execute(context.Background(), dto.EvaluationRequest{CustomerID: "CU-1001", RequestedTermMonths: &term})

		require.ErrorIs(t, err, usecase.ErrInvalidRequestedTerm)
	})

	t.Run("propagates profile construction errors", func(t *testing.T) {
		profiles := &mockProfileRepository{
			buildFunc: func(_ context.Context, _ string, _ *int) (model.CustomerProfile, error) {
				return model.CustomerProfile{}, fmt.Errorf("card CARD-9: balance must not be negative")
			},
		}

		uc := usecase.NewEvaluateCustomerUseCase(
			profiles, service.NewEligibilityEngine(nil), service.NewScenarioComposer(),
			nil, nil, nil, discardLogger(),
		)

		_, err := uc.Execute(context.Background(), dto.EvaluationRequest{CustomerID: "CU-1001"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "build customer profile")
	})

	t.Run("publish failures do not fail the evaluation", func(t *testing.T) {
		profiles := &mockProfileRepository{
			buildFunc: func(_ context.Context, _ string, _ *int) (model.CustomerProfile, error) {
				return testProfile(t, "CU-1001"), nil
			},
		}
		engine := service.NewEligibilityEngine([]model.Offer{testOffer(t, "OF-1", 15, 24, 10000)})
		publisher := &capturingPublisher{err: fmt.Errorf("broker unavailable")}

		uc := usecase.NewEvaluateCustomerUseCase(
			profiles, engine, service.NewScenarioComposer(),
			nil, publisher, nil, discardLogger(),
		)

		resp, err := uc.Execute(context.Background(), dto.EvaluationRequest{CustomerID: "CU-1001"})

		require.NoError(t, err)
		assert.True(t, resp.IsEligible)
	})
}

func TestListOffersUseCase_Execute(t *testing.T) {
	t.Run("returns offers sorted best first", func(t *testing.T) {
		offers := &mockOfferRepository{
			offersFunc: func(_ context.Context) ([]model.Offer, error) {
				return []model.Offer{
					testOffer(t, "OF-B", 18, 36, 20000),
					testOffer(t, "OF-A", 12, 24, 15000),
				}, nil
			},
		}

		uc := usecase.NewListOffersUseCase(offers)

		summaries, err := uc.Execute(context.Background())

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "OF-A", summaries[0].OfferID)
		assert.Equal(t, "OF-B", summaries[1].OfferID)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		offers := &mockOfferRepository{
			offersFunc: func(_ context.Context) ([]model.Offer, error) {
				return nil, fmt.Errorf("catalog unreadable")
			},
		}

		uc := usecase.NewListOffersUseCase(offers)

		_, err := uc.Execute(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "load offers")
	})
}
