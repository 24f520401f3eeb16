package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// ScenarioType – immutable value object
// ---------------------------------------------------------------------------

// ScenarioType identifies the repayment strategy a scenario models.
type ScenarioType struct {
	value string
}

const (
	scenarioMinimumPayment       = "minimum_payment"
	scenarioOptimizedPlan        = "optimized_plan"
	scenarioConsolidation        = "consolidation"
	scenarioConsolidationSurplus = "consolidation_surplus"
)

var (
	ScenarioTypeMinimumPayment       = ScenarioType{value: scenarioMinimumPayment}
	ScenarioTypeOptimizedPlan        = ScenarioType{value: scenarioOptimizedPlan}
	ScenarioTypeConsolidation        = ScenarioType{value: scenarioConsolidation}
	ScenarioTypeConsolidationSurplus = ScenarioType{value: scenarioConsolidationSurplus}
)

var validScenarioTypes = map[string]ScenarioType{
	scenarioMinimumPayment:       ScenarioTypeMinimumPayment,
	scenarioOptimizedPlan:        ScenarioTypeOptimizedPlan,
	scenarioConsolidation:        ScenarioTypeConsolidation,
	scenarioConsolidationSurplus: ScenarioTypeConsolidationSurplus,
}

// NewScenarioType creates a ScenarioType from a raw string.
func NewScenarioType(s string) (ScenarioType, error) {
	v, ok := validScenarioTypes[s]
	if !ok {
		return ScenarioType{}, fmt.Errorf("invalid scenario type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the scenario type.
func (s ScenarioType) String() string { return s.value }

// IsZero returns true if the scenario type has not been initialised.
func (s ScenarioType) IsZero() bool { return s.value == "" }

// Equal returns true when both scenario types carry the same value.
func (s ScenarioType) Equal(other ScenarioType) bool { return s.value == other.value }

// MarshalJSON encodes the scenario type as its raw string value.
func (s ScenarioType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.value + `"`), nil
}
