package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

func TestNewProductType(t *testing.T) {
	t.Run("accepts canonical values", func(t *testing.T) {
		for _, raw := range []string{"card", "personal", "micro", "loan", "other"} {
			pt, err := valueobject.NewProductType(raw)
			require.NoError(t, err, raw)
			assert.Equal(t, raw, pt.String())
		}
	})

	t.Run("rejects aliases and unknown values", func(t *testing.T) {
		for _, raw := range []string{"personal_loan", "credit-card", "mortgage", ""} {
			_, err := valueobject.NewProductType(raw)
			assert.Error(t, err, raw)
		}
	})
}

func TestParseProductType(t *testing.T) {
	t.Run("maps dataset aliases to canonical types", func(t *testing.T) {
		cases := map[string]valueobject.ProductType{
			"personal_loan": valueobject.ProductTypePersonal,
			"personal-loan": valueobject.ProductTypePersonal,
			"micro_loan":    valueobject.ProductTypeMicro,
			"credit_card":   valueobject.ProductTypeCard,
			"credit-card":   valueobject.ProductTypeCard,
			"  Card  ":      valueobject.ProductTypeCard,
			"LOAN":          valueobject.ProductTypeLoan,
		}
		for raw, want := range cases {
			assert.True(t, want.Equal(valueobject.ParseProductType(raw)), raw)
		}
	})

	t.Run("unknown labels fall back to other", func(t *testing.T) {
		assert.True(t, valueobject.ProductTypeOther.Equal(valueobject.ParseProductType("mortgage")))
		assert.True(t, valueobject.ProductTypeOther.Equal(valueobject.ParseProductType("")))
	})
}

func TestScenarioType(t *testing.T) {
	t.Run("accepts all scenario kinds", func(t *testing.T) {
		for _, raw := range []string{"minimum_payment", "optimized_plan", "consolidation", "consolidation_surplus"} {
			st, err := valueobject.NewScenarioType(raw)
			require.NoError(t, err, raw)
			assert.Equal(t, raw, st.String())
		}
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		_, err := valueobject.NewScenarioType("snowball")
		assert.Error(t, err)
	})

	t.Run("marshals as its raw string", func(t *testing.T) {
		raw, err := valueobject.ScenarioTypeConsolidation.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `"consolidation"`, string(raw))
	})
}
