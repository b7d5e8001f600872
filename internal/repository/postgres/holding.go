package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"argus/internal/domain/holding"
	"argus/pkg/errors"
)

// Compile-time check
var _ holding.Repository = (*HoldingRepository)(nil)

// HoldingRepository implements holding.Repository using sqlx
type HoldingRepository struct {
	db DBTX
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db DBTX) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// Create inserts a new holding
func (r *HoldingRepository) Create(ctx context.Context, h *holding.Holding) error {
	query := `
		INSERT INTO holdings (
			id, user_id, symbol, shares, cost_basis, purchase_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Symbol, h.Shares, h.CostBasis, h.PurchaseDate,
		h.CreatedAt, h.UpdatedAt,
	)
	return err
}

// GetByID retrieves a holding by ID
func (r *HoldingRepository) GetByID(ctx context.Context, id uuid.UUID) (*holding.Holding, error) {
	var h holding.Holding

	query := `SELECT * FROM holdings WHERE id = $1`

	if err := r.db.GetContext(ctx, &h, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "holding %s", id)
		}
		return nil, err
	}

	return &h, nil
}

// ListByUser retrieves all holdings for a user
func (r *HoldingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*holding.Holding, error) {
	var holdings []*holding.Holding

	query := `
		SELECT * FROM holdings
		WHERE user_id = $1
		ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &holdings, query, userID); err != nil {
		return nil, err
	}

	return holdings, nil
}
