package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"argus/internal/domain/alert"
	"argus/pkg/errors"
)

// Compile-time check
var _ alert.Repository = (*AlertRepository)(nil)

// AlertRepository implements alert.Repository using sqlx
type AlertRepository struct {
	db DBTX
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db DBTX) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts a new alert
func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	query := `
		INSERT INTO alerts (
			id, user_id, rule_id, holding_id, symbol, message,
			ai_summary, triggered_at, notified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.RuleID, a.HoldingID, a.Symbol, a.Message,
		a.AISummary, a.TriggeredAt, a.Notified,
	)
	return err
}

// GetByID retrieves an alert by ID
func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	var a alert.Alert

	query := `SELECT * FROM alerts WHERE id = $1`

	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "alert %s", id)
		}
		return nil, err
	}

	return &a, nil
}

// ListByUser retrieves the most recent alerts for a user
func (r *AlertRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*alert.Alert, error) {
	var alerts []*alert.Alert

	query := `
		SELECT * FROM alerts
		WHERE user_id = $1
		ORDER BY triggered_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &alerts, query, userID, limit); err != nil {
		return nil, err
	}

	return alerts, nil
}

// SetAISummary attaches a deferred AI summary to an alert
func (r *AlertRepository) SetAISummary(ctx context.Context, id uuid.UUID, summary string) error {
	query := `UPDATE alerts SET ai_summary = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, summary)
	return err
}

// MarkNotified records a successful delivery
func (r *AlertRepository) MarkNotified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE alerts SET notified = TRUE WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
