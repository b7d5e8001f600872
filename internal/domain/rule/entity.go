package rule

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the condition a rule evaluates.
type Type string

const (
	TypePriceBelowCostPct Type = "price_below_cost_pct"
	TypePriceAboveCostPct Type = "price_above_cost_pct"
	TypePriceBelowValue   Type = "price_below_value"
	TypePriceAboveValue   Type = "price_above_value"
	TypeRSIBelowValue     Type = "rsi_below_value"
	TypeRSIAboveValue     Type = "rsi_above_value"
)

// Description returns a human-readable description of the rule type.
func (t Type) Description() string {
	switch t {
	case TypePriceBelowCostPct:
		return "Alert if price drops X% below cost basis"
	case TypePriceAboveCostPct:
		return "Alert if price rises X% above cost basis"
	case TypePriceBelowValue:
		return "Alert if price drops below $X"
	case TypePriceAboveValue:
		return "Alert if price rises above $X"
	case TypeRSIBelowValue:
		return "Alert if RSI drops below X (oversold)"
	case TypeRSIAboveValue:
		return "Alert if RSI rises above X (overbought)"
	}
	return "Unknown rule type"
}

// RequiresIndicator reports whether the rule type needs an indicator value.
func (t Type) RequiresIndicator() bool {
	return t == TypeRSIBelowValue || t == TypeRSIAboveValue
}

// Rule is a user-defined alert condition.
type Rule struct {
	ID              uuid.UUID  `db:"id"`
	UserID          uuid.UUID  `db:"user_id"`
	Name            string     `db:"name"`
	RuleType        Type       `db:"rule_type"`
	Threshold       float64    `db:"threshold"`
	Symbol          *string    `db:"symbol"` // nil = applies to all holdings
	Enabled         bool       `db:"enabled"`
	CooldownMinutes int        `db:"cooldown_minutes"`
	LastTriggeredAt *time.Time `db:"last_triggered_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

// InCooldown reports whether the rule must not re-trigger at the given time.
// A rule is in cooldown iff it has a positive cooldown, has triggered before,
// and the cooldown window has not yet elapsed.
func (r *Rule) InCooldown(now time.Time) bool {
	if r.CooldownMinutes <= 0 || r.LastTriggeredAt == nil {
		return false
	}
	end := r.LastTriggeredAt.Add(time.Duration(r.CooldownMinutes) * time.Minute)
	return now.Before(end)
}
