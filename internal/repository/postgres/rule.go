package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"argus/internal/domain/rule"
	"argus/pkg/errors"
)

// Compile-time check
var _ rule.Repository = (*RuleRepository)(nil)

// RuleRepository implements rule.Repository using sqlx
type RuleRepository struct {
	db DBTX
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db DBTX) *RuleRepository {
	return &RuleRepository{db: db}
}

// Create inserts a new rule
func (r *RuleRepository) Create(ctx context.Context, rl *rule.Rule) error {
	query := `
		INSERT INTO rules (
			id, user_id, name, rule_type, threshold, symbol,
			enabled, cooldown_minutes, last_triggered_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		rl.ID, rl.UserID, rl.Name, rl.RuleType, rl.Threshold, rl.Symbol,
		rl.Enabled, rl.CooldownMinutes, rl.LastTriggeredAt, rl.CreatedAt,
	)
	return err
}

// GetByID retrieves a rule by ID
func (r *RuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*rule.Rule, error) {
	var rl rule.Rule

	query := `SELECT * FROM rules WHERE id = $1`

	if err := r.db.GetContext(ctx, &rl, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "rule %s", id)
		}
		return nil, err
	}

	return &rl, nil
}

// GetByName retrieves a rule by name for a user
func (r *RuleRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*rule.Rule, error) {
	var rl rule.Rule

	query := `SELECT * FROM rules WHERE user_id = $1 AND name = $2`

	if err := r.db.GetContext(ctx, &rl, query, userID, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "rule %q", name)
		}
		return nil, err
	}

	return &rl, nil
}

// ListEnabledByUser retrieves all enabled rules for a user
func (r *RuleRepository) ListEnabledByUser(ctx context.Context, userID uuid.UUID) ([]*rule.Rule, error) {
	var rules []*rule.Rule

	query := `
		SELECT * FROM rules
		WHERE user_id = $1 AND enabled = TRUE
		ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &rules, query, userID); err != nil {
		return nil, err
	}

	return rules, nil
}

// UpdateLastTriggered stamps the start of the rule's cooldown window
func (r *RuleRepository) UpdateLastTriggered(ctx context.Context, id uuid.UUID, triggeredAt time.Time) error {
	query := `UPDATE rules SET last_triggered_at = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, triggeredAt)
	return err
}
