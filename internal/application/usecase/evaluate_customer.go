package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"

	"github.com/finrestructure/consolidation-service/internal/application/dto"
	"github.com/finrestructure/consolidation-service/internal/domain/event"
	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/port"
	"github.com/finrestructure/consolidation-service/internal/domain/service"
	"github.com/finrestructure/consolidation-service/pkg/observability"
)

// ErrCustomerIDRequired is returned when an evaluation request carries no
// customer identifier.
var ErrCustomerIDRequired = errors.New("customer ID is required")

// ErrInvalidRequestedTerm is returned when the requested term is not a
// positive number of months.
var ErrInvalidRequestedTerm = errors.New("requested term months must be positive")

// EvaluateCustomerUseCase evaluates a customer against the offer catalog and
// composes repayment scenario projections.
type EvaluateCustomerUseCase struct {
	profiles  port.ProfileRepository
	engine    *service.EligibilityEngine
	composer  *service.ScenarioComposer
	cache     port.EvaluationCache
	publisher port.EventPublisher
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewEvaluateCustomerUseCase wires dependencies. Cache and publisher may be
// nil, in which case caching and event publication are skipped.
func NewEvaluateCustomerUseCase(
	profiles port.ProfileRepository,
	engine *service.EligibilityEngine,
	composer *service.ScenarioComposer,
	cache port.EvaluationCache,
	publisher port.EventPublisher,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *EvaluateCustomerUseCase {
	return &EvaluateCustomerUseCase{
		profiles:  profiles,
		engine:    engine,
		composer:  composer,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute evaluates the customer and returns the full evaluation response.
func (uc *EvaluateCustomerUseCase) Execute(
	ctx context.Context,
	req dto.EvaluationRequest,
) (dto.EvaluationResponse, error) {
	if req.CustomerID == "" {
		return dto.EvaluationResponse{}, ErrCustomerIDRequired
	}
	if req.RequestedTermMonths != nil && *req.RequestedTermMonths <= 0 {
		return dto.EvaluationResponse{}, ErrInvalidRequestedTerm
	}

	cacheKey := evaluationCacheKey(req)
	if uc.cache != nil {
		if raw, ok := uc.cache.Get(ctx, cacheKey); ok {
			var cached dto.EvaluationResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				uc.observeCache("hit")
				return cached, nil
			}
			uc.logger.Warn("discarding undecodable cache entry", "key", cacheKey)
		}
		uc.observeCache("miss")
	}

	profile, err := uc.profiles.BuildCustomerProfile(ctx, req.CustomerID, req.RequestedTermMonths)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("build customer profile: %w", err)
	}

	eligibility := uc.engine.Evaluate(profile)

	started := time.Now()
	scenarios := uc.composer.Compose(profile, eligibility)
	if uc.metrics != nil {
		uc.metrics.SimulationDuration.Observe(time.Since(started).Seconds())
	}

	summary := model.ScenarioSummary{Eligibility: eligibility, Scenarios: scenarios}
	resp := dto.NewEvaluationResponse(summary, profile.ConsolidatedBalance())

	uc.observeOutcome(resp.IsEligible)
	uc.logger.Info("customer evaluated",
		"customer_id", resp.CustomerID,
		"eligible", resp.IsEligible,
		"eligible_offers", len(resp.EligibleOffers),
		"scenarios", len(resp.Scenarios),
	)

	if uc.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, raw); err != nil {
				uc.logger.Warn("failed to cache evaluation", "key", cacheKey, "error", err)
			}
		}
	}

	uc.publishCompleted(ctx, resp)

	return resp, nil
}

// publishCompleted emits the evaluation event. Delivery failures are logged
// and never fail the evaluation itself.
func (uc *EvaluateCustomerUseCase) publishCompleted(ctx context.Context, resp dto.EvaluationResponse) {
	if uc.publisher == nil {
		return
	}
	bestOfferID := ""
	if resp.BestOfferID != nil {
		bestOfferID = *resp.BestOfferID
	}
	evt := event.NewEvaluationCompleted(
		resp.CustomerID,
		resp.IsEligible,
		bestOfferID,
		len(resp.EligibleOffers),
		len(resp.Scenarios),
		resp.ConsolidatedBalance,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.Warn("failed to publish evaluation event", "customer_id", resp.CustomerID, "error", err)
	}
}

func (uc *EvaluateCustomerUseCase) observeOutcome(eligible bool) {
	if uc.metrics == nil {
		return
	}
	outcome := "ineligible"
	if eligible {
		outcome = "eligible"
	}
	uc.metrics.EvaluationsTotal.WithLabelValues(outcome).Inc()
}

func (uc *EvaluateCustomerUseCase) observeCache(result string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.CacheHitsTotal.WithLabelValues(result).Inc()
}

func evaluationCacheKey(req dto.EvaluationRequest) string {
	if req.RequestedTermMonths == nil {
		return fmt.Sprintf("evaluation:%s:default", req.CustomerID)
	}
	return fmt.Sprintf("evaluation:%s:%d", req.CustomerID, *req.RequestedTermMonths)
}
