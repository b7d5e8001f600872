package rules

import (
	"fmt"
)

// Input carries the numbers an evaluator needs. Indicator is nil for rule
// types that do not read one.
type Input struct {
	Price     float64
	CostBasis float64
	Threshold float64
	Indicator *float64
}

// Evaluator is a stateless predicate plus reason formatter for one rule type
type Evaluator interface {
	Evaluate(in Input) bool
	Reason(in Input) string
}

func dropBelowCostPct(in Input) float64 {
	return (in.CostBasis - in.Price) / in.CostBasis * 100
}

func riseAboveCostPct(in Input) float64 {
	return (in.Price - in.CostBasis) / in.CostBasis * 100
}

type priceBelowCostPct struct{}

func (priceBelowCostPct) Evaluate(in Input) bool {
	if in.CostBasis <= 0 {
		return false
	}
	return dropBelowCostPct(in) >= in.Threshold
}

func (priceBelowCostPct) Reason(in Input) string {
	return fmt.Sprintf("Price $%.2f is %.1f%% below cost basis $%.2f (threshold: %v%%)",
		in.Price, dropBelowCostPct(in), in.CostBasis, in.Threshold)
}

type priceAboveCostPct struct{}

func (priceAboveCostPct) Evaluate(in Input) bool {
	if in.CostBasis <= 0 {
		return false
	}
	return riseAboveCostPct(in) >= in.Threshold
}

func (priceAboveCostPct) Reason(in Input) string {
	return fmt.Sprintf("Price $%.2f is %.1f%% above cost basis $%.2f (threshold: %v%%)",
		in.Price, riseAboveCostPct(in), in.CostBasis, in.Threshold)
}

type priceBelowValue struct{}

func (priceBelowValue) Evaluate(in Input) bool {
	return in.Price <= in.Threshold
}

func (priceBelowValue) Reason(in Input) string {
	return fmt.Sprintf("Price $%.2f is at or below $%.2f", in.Price, in.Threshold)
}

type priceAboveValue struct{}

func (priceAboveValue) Evaluate(in Input) bool {
	return in.Price >= in.Threshold
}

func (priceAboveValue) Reason(in Input) string {
	return fmt.Sprintf("Price $%.2f is at or above $%.2f", in.Price, in.Threshold)
}

type rsiBelowValue struct{}

func (rsiBelowValue) Evaluate(in Input) bool {
	return in.Indicator != nil && *in.Indicator <= in.Threshold
}

func (rsiBelowValue) Reason(in Input) string {
	rsi := 0.0
	if in.Indicator != nil {
		rsi = *in.Indicator
	}
	zone := "approaching oversold"
	if rsi < 30 {
		zone = "oversold"
	}
	return fmt.Sprintf("RSI %.1f is at or below %v (%s)", rsi, in.Threshold, zone)
}

type rsiAboveValue struct{}

func (rsiAboveValue) Evaluate(in Input) bool {
	return in.Indicator != nil && *in.Indicator >= in.Threshold
}

func (rsiAboveValue) Reason(in Input) string {
	rsi := 0.0
	if in.Indicator != nil {
		rsi = *in.Indicator
	}
	zone := "approaching overbought"
	if rsi > 70 {
		zone = "overbought"
	}
	return fmt.Sprintf("RSI %.1f is at or above %v (%s)", rsi, in.Threshold, zone)
}
