package alert

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for alert data access
type Repository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Alert, error)

	// SetAISummary attaches a deferred AI summary to an existing alert.
	SetAISummary(ctx context.Context, id uuid.UUID, summary string) error

	// MarkNotified records that at least one channel delivered the alert.
	MarkNotified(ctx context.Context, id uuid.UUID) error
}
