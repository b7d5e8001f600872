package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/domain/rule"
	"argus/pkg/errors"
)

func fptr(v float64) *float64 { return &v }

func TestPriceBelowCostPct_Triggers(t *testing.T) {
	ev, err := NewRegistry().Lookup(rule.TypePriceBelowCostPct)
	require.NoError(t, err)

	in := Input{Price: 75, CostBasis: 100, Threshold: 20}
	assert.True(t, ev.Evaluate(in))
	assert.Contains(t, ev.Reason(in), "25.0%")
	assert.Contains(t, ev.Reason(in), "below cost basis $100.00")
	assert.Contains(t, ev.Reason(in), "threshold: 20%")
}

func TestPriceBelowCostPct_ExactThresholdTriggers(t *testing.T) {
	ev, _ := NewRegistry().Lookup(rule.TypePriceBelowCostPct)
	assert.True(t, ev.Evaluate(Input{Price: 80, CostBasis: 100, Threshold: 20}))
}

func TestPriceBelowCostPct_ZeroCostBasisNeverTriggers(t *testing.T) {
	ev, _ := NewRegistry().Lookup(rule.TypePriceBelowCostPct)
	assert.False(t, ev.Evaluate(Input{Price: 0.01, CostBasis: 0, Threshold: 1}))
	assert.False(t, ev.Evaluate(Input{Price: 0.01, CostBasis: -5, Threshold: 1}))
}

func TestPriceAboveCostPct(t *testing.T) {
	ev, _ := NewRegistry().Lookup(rule.TypePriceAboveCostPct)

	in := Input{Price: 130, CostBasis: 100, Threshold: 25}
	assert.True(t, ev.Evaluate(in))
	assert.Contains(t, ev.Reason(in), "30.0%")
	assert.Contains(t, ev.Reason(in), "above cost basis")

	assert.False(t, ev.Evaluate(Input{Price: 110, CostBasis: 100, Threshold: 25}))
}

func TestPriceAbsoluteThresholds(t *testing.T) {
	below, _ := NewRegistry().Lookup(rule.TypePriceBelowValue)
	assert.True(t, below.Evaluate(Input{Price: 9.99, Threshold: 10}))
	assert.True(t, below.Evaluate(Input{Price: 10, Threshold: 10}))
	assert.False(t, below.Evaluate(Input{Price: 10.01, Threshold: 10}))
	assert.Contains(t, below.Reason(Input{Price: 9.99, Threshold: 10}), "$9.99")

	above, _ := NewRegistry().Lookup(rule.TypePriceAboveValue)
	assert.True(t, above.Evaluate(Input{Price: 200, Threshold: 150}))
	assert.False(t, above.Evaluate(Input{Price: 149, Threshold: 150}))
}

func TestRSIAboveValue_OverboughtZone(t *testing.T) {
	ev, _ := NewRegistry().Lookup(rule.TypeRSIAboveValue)

	in := Input{Threshold: 70, Indicator: fptr(75.0)}
	assert.True(t, ev.Evaluate(in))
	assert.Contains(t, ev.Reason(in), "overbought")
	assert.Contains(t, ev.Reason(in), "75.0")

	// At 70 exactly the zone is still approaching
	atThreshold := Input{Threshold: 70, Indicator: fptr(70.0)}
	assert.True(t, ev.Evaluate(atThreshold))
	assert.Contains(t, ev.Reason(atThreshold), "approaching overbought")
}

func TestRSIBelowValue_OversoldZone(t *testing.T) {
	ev, _ := NewRegistry().Lookup(rule.TypeRSIBelowValue)

	in := Input{Threshold: 30, Indicator: fptr(25.0)}
	assert.True(t, ev.Evaluate(in))
	assert.Contains(t, ev.Reason(in), "oversold")

	atThreshold := Input{Threshold: 30, Indicator: fptr(30.0)}
	assert.True(t, ev.Evaluate(atThreshold))
	assert.Contains(t, ev.Reason(atThreshold), "approaching oversold")
}

func TestRSIRules_MissingIndicatorNeverTriggers(t *testing.T) {
	below, _ := NewRegistry().Lookup(rule.TypeRSIBelowValue)
	above, _ := NewRegistry().Lookup(rule.TypeRSIAboveValue)

	assert.False(t, below.Evaluate(Input{Threshold: 30}))
	assert.False(t, above.Evaluate(Input{Threshold: 70}))
}

func TestRegistry_UnknownType(t *testing.T) {
	_, err := NewRegistry().Lookup(rule.Type("moon_phase"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownRuleType))
}
