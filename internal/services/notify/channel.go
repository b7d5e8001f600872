package notify

import (
	"context"
	"strings"

	"argus/internal/domain/alert"
)

// maxSummaryLen bounds the AI summary appended to outgoing messages so
// transport limits are never hit
const maxSummaryLen = 200

// Channel delivers an alert to one destination. Notify reports success; it
// must not panic or raise — delivery failure is a false return plus a log line.
type Channel interface {
	Name() string
	Notify(ctx context.Context, a *alert.Alert) bool
}

// summaryFor returns the alert's AI summary truncated for transport, or ""
func summaryFor(a *alert.Alert) string {
	if a.AISummary == nil {
		return ""
	}
	s := strings.TrimSpace(*a.AISummary)
	if runes := []rune(s); len(runes) > maxSummaryLen {
		s = string(runes[:maxSummaryLen-1]) + "…"
	}
	return s
}
