package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a neutral financial market explainer. Given a triggered ` +
	`portfolio alert and its market context, explain in plain language what happened ` +
	`and what market conditions led to it. Keep it under 120 words. Do not give ` +
	`investment advice, price targets, or buy/sell recommendations.`

// buildUserPrompt renders the alert context as a compact fact sheet.
// Optional fields are included only when present.
func buildUserPrompt(alertCtx AlertContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Alert: %s\n", alertCtx.Reason)
	fmt.Fprintf(&b, "Symbol: %s\n", alertCtx.Symbol)
	fmt.Fprintf(&b, "Rule: %s (%s, threshold %v)\n", alertCtx.RuleName, alertCtx.RuleType, alertCtx.Threshold)
	fmt.Fprintf(&b, "Current price: $%.2f\n", alertCtx.Price)

	if alertCtx.CostBasis != nil {
		fmt.Fprintf(&b, "Cost basis: $%.2f\n", *alertCtx.CostBasis)
	}
	if alertCtx.PercentChange != nil {
		fmt.Fprintf(&b, "Change vs cost basis: %.1f%%\n", *alertCtx.PercentChange)
	}
	if alertCtx.RSI != nil {
		fmt.Fprintf(&b, "RSI (14-day): %.1f\n", *alertCtx.RSI)
	}
	if alertCtx.High52W != nil && alertCtx.Low52W != nil {
		fmt.Fprintf(&b, "52-week range: $%.2f - $%.2f\n", *alertCtx.Low52W, *alertCtx.High52W)
	}

	b.WriteString("\nExplain what happened and the market conditions behind it.")
	return b.String()
}
