package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"argus/internal/domain/notification"
	"argus/pkg/errors"
)

// Compile-time check
var _ notification.Repository = (*NotificationRepository)(nil)

// NotificationRepository implements notification.Repository using sqlx
type NotificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new notification settings repository
func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// GetByUser retrieves notification settings for a user
func (r *NotificationRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*notification.Settings, error) {
	var s notification.Settings

	query := `SELECT * FROM notification_settings WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &s, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "notification settings for user %s", userID)
		}
		return nil, err
	}

	return &s, nil
}

// Upsert creates or replaces a user's notification settings
func (r *NotificationRepository) Upsert(ctx context.Context, s *notification.Settings) error {
	query := `
		INSERT INTO notification_settings (
			id, user_id, console_enabled, telegram_enabled, telegram_chat_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			console_enabled = $3,
			telegram_enabled = $4,
			telegram_chat_id = $5,
			updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.ConsoleEnabled, s.TelegramEnabled, s.TelegramChatID,
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}
