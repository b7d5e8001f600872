package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for notification settings access
type Repository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
}
