package holding

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for holding data access
type Repository interface {
	Create(ctx context.Context, h *Holding) error
	GetByID(ctx context.Context, id uuid.UUID) (*Holding, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Holding, error)
}
