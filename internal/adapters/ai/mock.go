package ai

import (
	"context"
	"fmt"
)

// Ensure MockGenerator implements ContextGenerator
var _ ContextGenerator = (*MockGenerator)(nil)

// MockGenerator returns canned summaries. Used in tests and when running
// without an OpenAI API key.
type MockGenerator struct {
	// Err, when set, is returned from every call
	Err error
	// Calls records the contexts passed in, in order
	Calls []AlertContext
}

// GenerateContext returns a deterministic summary built from the alert context
func (m *MockGenerator) GenerateContext(_ context.Context, alertCtx AlertContext) (string, error) {
	m.Calls = append(m.Calls, alertCtx)
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf("%s triggered %q at $%.2f.", alertCtx.Symbol, alertCtx.RuleName, alertCtx.Price), nil
}
