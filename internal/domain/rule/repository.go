package rule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for rule data access
type Repository interface {
	Create(ctx context.Context, r *Rule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Rule, error)
	ListEnabledByUser(ctx context.Context, userID uuid.UUID) ([]*Rule, error)

	// UpdateLastTriggered stamps the rule so the cooldown window starts.
	UpdateLastTriggered(ctx context.Context, id uuid.UUID, triggeredAt time.Time) error
}
