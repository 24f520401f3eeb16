package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/service"
	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

func composeFor(t *testing.T, profile model.CustomerProfile, offers ...model.Offer) []model.ScenarioResult {
	t.Helper()
	engine := service.NewEligibilityEngine(offers)
	return service.NewScenarioComposer().Compose(profile, engine.Evaluate(profile))
}

func scenariosOfType(results []model.ScenarioResult, st valueobject.ScenarioType) []model.ScenarioResult {
	var out []model.ScenarioResult
	for _, sc := range results {
		if sc.Type.Equal(st) {
			out = append(out, sc)
		}
	}
	return out
}

func TestScenarioComposer_Compose(t *testing.T) {
	t.Run("card customer with one eligible offer", func(t *testing.T) {
		profile := mustProfile(t, "CU-1", nil,
			[]model.CardAccount{mustCard(t, "CARD-1", "CU-1", "5000", 0)}, nil, nil,
		)
		offer := mustOffer(t, "OF-1", []string{"card"}, "10000", "15", 24, "")

		results := composeFor(t, profile, offer)

		require.GreaterOrEqual(t, len(results), 3)
		assert.True(t, results[0].Type.Equal(valueobject.ScenarioTypeMinimumPayment))
		assert.True(t, results[1].Type.Equal(valueobject.ScenarioTypeOptimizedPlan))

		// Minimum-payment scenario is its own baseline.
		require.NotNil(t, results[0].SavingsVsMinimum)
		assert.True(t, results[0].SavingsVsMinimum.IsZero())
		assert.True(t, decimal.RequireFromString("250.00").Equal(results[0].MonthlyPayment))

		// Optimized plan never does worse than the baseline.
		require.NotNil(t, results[1].SavingsVsMinimum)
		assert.False(t, results[1].SavingsVsMinimum.IsNegative())

		consolidations := scenariosOfType(results, valueobject.ScenarioTypeConsolidation)
		require.Len(t, consolidations, 1)
		assert.Equal(t, "OF-1", consolidations[0].ConsolidationOfferID)
		require.NotNil(t, consolidations[0].PayoffMonths)
		assert.Equal(t, 24, *consolidations[0].PayoffMonths)
	})

	t.Run("all monetary outputs are non-negative", func(t *testing.T) {
		profile := mustProfile(t, "CU-1", nil,
			[]model.CardAccount{mustCard(t, "CARD-1", "CU-1", "5000", 0)}, nil, nil,
		)
		offer := mustOffer(t, "OF-1", []string{"card"}, "10000", "15", 24, "")

		for _, sc := range composeFor(t, profile, offer) {
			assert.False(t, sc.MonthlyPayment.IsNegative(), sc.Type.String())
			assert.False(t, sc.TotalPaid.IsNegative(), sc.Type.String())
			assert.False(t, sc.InterestCost.IsNegative(), sc.Type.String())
		}
	})

	t.Run("no debts yields a single degenerate scenario", func(t *testing.T) {
		profile := mustProfile(t, "CU-1", nil, nil, nil, nil)

		results := composeFor(t, profile)

		require.Len(t, results, 1)
		sc := results[0]
		assert.True(t, sc.Type.Equal(valueobject.ScenarioTypeMinimumPayment))
		assert.True(t, sc.MonthlyPayment.IsZero())
		require.NotNil(t, sc.PayoffMonths)
		assert.Equal(t, 0, *sc.PayoffMonths)
		assert.Contains(t, sc.Notes, "no active debts detected for analysis")
	})

	t.Run("no eligible offers yields an explanatory placeholder", func(t *testing.T) {
		profile := mustProfile(t, "CU-1", nil,
			[]model.CardAccount{mustCard(t, "CARD-1", "CU-1", "5000", 0)}, nil, nil,
		)
		offer := mustOffer(t, "OF-1", []string{"micro"}, "10000", "15", 24, "")

		results := composeFor(t, profile, offer)

		consolidations := scenariosOfType(results, valueobject.ScenarioTypeConsolidation)
		require.Len(t, consolidations, 1)
		placeholder := consolidations[0]
		assert.Nil(t, placeholder.PayoffMonths)
		assert.Nil(t, placeholder.SavingsVsMinimum)
		assert.Empty(t, placeholder.ConsolidationOfferID)
		assert.Contains(t, placeholder.Notes, "no applicable consolidation offers")
	})

	t.Run("cashflow drives the optimized budget", func(t *testing.T) {
		// disposable 1200 minus half the 10% income swing (150) = 1050.
		cashflow := &model.CashflowSummary{
			MonthlyIncomeAvg:     decimal.NewFromInt(3000),
			IncomeVariabilityPct: decimal.NewFromInt(10),
			EssentialExpensesAvg: decimal.NewFromInt(1800),
		}
		profile, err := model.NewCustomerProfile("CU-1", nil,
			[]model.CardAccount{mustCard(t, "CARD-1", "CU-1", "5000", 0)}, nil, cashflow, nil,
		)
		require.NoError(t, err)

		results := composeFor(t, profile, mustOffer(t, "OF-1", []string{"card"}, "10000", "15", 24, ""))

		optimized := scenariosOfType(results, valueobject.ScenarioTypeOptimizedPlan)
		require.Len(t, optimized, 1)
		assert.True(t, decimal.RequireFromString("1050.00").Equal(optimized[0].MonthlyPayment))
	})

	t.Run("optimized budget never drops below the minimums", func(t *testing.T) {
		cashflow := &model.CashflowSummary{
			MonthlyIncomeAvg:     decimal.NewFromInt(1000),
			IncomeVariabilityPct: decimal.NewFromInt(50),
			EssentialExpensesAvg: decimal.NewFromInt(950),
		}
		profile, err := model.NewCustomerProfile("CU-1", nil,
			[]model.CardAccount{mustCard(t, "CARD-1", "CU-1", "5000", 0)}, nil, cashflow, nil,
		)
		require.NoError(t, err)

		results := composeFor(t, profile, mustOffer(t, "OF-1", []string{"card"}, "10000", "15", 24, ""))

		optimized := scenariosOfType(results, valueobject.ScenarioTypeOptimizedPlan)
		require.Len(t, optimized, 1)
		// Minimum budget for the 5000 card at 5% is 250.
		assert.True(t, decimal.RequireFromString("250.00").Equal(optimized[0].MonthlyPayment))
	})

	t.Run("surplus variant appears when the optimized budget exceeds the payment", func(t *testing.T) {
		cashflow := &model.CashflowSummary{
			MonthlyIncomeAvg:     decimal.NewFromInt(3000),
			IncomeVariabilityPct: decimal.NewFromInt(10),
			EssentialExpensesAvg: decimal.NewFromInt(1800),
		}
		profile, err := model.NewCustomerProfile("CU-1", nil,
			[]model.CardAccount{mustCard(t, "CARD-1", "CU-1", "5000", 0)}, nil, cashflow, nil,
		)
		require.NoError(t, err)

		results := composeFor(t, profile, mustOffer(t, "OF-1", []string{"card"}, "10000", "15", 24, ""))

		surplus := scenariosOfType(results, valueobject.ScenarioTypeConsolidationSurplus)
		require.Len(t, surplus, 1)
		assert.Equal(t, "OF-1", surplus[0].ConsolidationOfferID)
		require.NotNil(t, surplus[0].PayoffMonths)

		base := scenariosOfType(results, valueobject.ScenarioTypeConsolidation)
		require.Len(t, base, 1)
		// Paying more per month retires the debt sooner and cheaper.
		assert.Less(t, *surplus[0].PayoffMonths, *base[0].PayoffMonths)
		assert.True(t, surplus[0].InterestCost.LessThan(base[0].InterestCost))
	})

	t.Run("requested term is capped at the offer maximum", func(t *testing.T) {
		term := 36
		profile := mustProfile(t, "CU-1", &term,
			[]model.CardAccount{mustCard(t, "CARD-1", "CU-1", "5000", 0)}, nil, nil,
		)
		// Offer allows up to 60 months so the term rule passes; the
		// requested 36 is used as-is.
		results := composeFor(t, profile, mustOffer(t, "OF-1", []string{"card"}, "10000", "15", 60, ""))

		consolidations := scenariosOfType(results, valueobject.ScenarioTypeConsolidation)
		require.Len(t, consolidations, 1)
		require.NotNil(t, consolidations[0].PayoffMonths)
		assert.Equal(t, 36, *consolidations[0].PayoffMonths)
	})

	t.Run("one consolidation scenario per eligible offer in offer order", func(t *testing.T) {
		profile := mustProfile(t, "CU-1", nil,
			[]model.CardAccount{mustCard(t, "CARD-1", "CU-1", "5000", 0)}, nil, nil,
		)

		results := composeFor(t, profile,
			mustOffer(t, "OF-HIGH", []string{"card"}, "10000", "20", 24, ""),
			mustOffer(t, "OF-LOW", []string{"card"}, "10000", "12", 24, ""),
		)

		consolidations := scenariosOfType(results, valueobject.ScenarioTypeConsolidation)
		require.Len(t, consolidations, 2)
		assert.Equal(t, "OF-LOW", consolidations[0].ConsolidationOfferID)
		assert.Equal(t, "OF-HIGH", consolidations[1].ConsolidationOfferID)
	})
}
