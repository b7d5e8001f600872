package rules

import (
	"argus/internal/domain/rule"
	"argus/pkg/errors"
)

// Registry maps rule types to their evaluators. The engine never switches on
// rule type directly; adding a type means adding one entry here.
type Registry struct {
	evaluators map[rule.Type]Evaluator
}

// NewRegistry creates a registry with all built-in evaluators
func NewRegistry() *Registry {
	return &Registry{
		evaluators: map[rule.Type]Evaluator{
			rule.TypePriceBelowCostPct: priceBelowCostPct{},
			rule.TypePriceAboveCostPct: priceAboveCostPct{},
			rule.TypePriceBelowValue:   priceBelowValue{},
			rule.TypePriceAboveValue:   priceAboveValue{},
			rule.TypeRSIBelowValue:     rsiBelowValue{},
			rule.TypeRSIAboveValue:     rsiAboveValue{},
		},
	}
}

// Lookup returns the evaluator for a rule type
func (r *Registry) Lookup(t rule.Type) (Evaluator, error) {
	ev, ok := r.evaluators[t]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownRuleType, "%q", t)
	}
	return ev, nil
}
