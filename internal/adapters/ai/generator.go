package ai

import (
	"context"
)

// AlertContext carries the market snapshot behind a triggered alert,
// used to build the enrichment prompt.
type AlertContext struct {
	Symbol        string
	RuleName      string
	RuleType      string
	Threshold     float64
	Reason        string
	Price         float64
	CostBasis     *float64
	PercentChange *float64
	RSI           *float64
	High52W       *float64
	Low52W        *float64
}

// ContextGenerator produces a short plain-language explanation of why an
// alert fired. Implementations must never give investment advice.
type ContextGenerator interface {
	GenerateContext(ctx context.Context, alertCtx AlertContext) (string, error)
}
