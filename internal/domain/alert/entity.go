package alert

import (
	"time"

	"github.com/google/uuid"
)

// Alert is an immutable snapshot of a triggered rule. After creation only the
// deferred AI summary and the notified flag may be attached.
type Alert struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	RuleID      uuid.UUID  `db:"rule_id"`
	HoldingID   *uuid.UUID `db:"holding_id"`
	Symbol      string     `db:"symbol"`
	Message     string     `db:"message"`
	AISummary   *string    `db:"ai_summary"`
	TriggeredAt time.Time  `db:"triggered_at"`
	Notified    bool       `db:"notified"`
}
