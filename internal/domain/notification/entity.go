package notification

import (
	"time"

	"github.com/google/uuid"
)

// Settings holds per-user notification channel configuration.
// Console stays enabled by default so a fresh install is never silent.
type Settings struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	ConsoleEnabled  bool      `db:"console_enabled"`
	TelegramEnabled bool      `db:"telegram_enabled"`
	TelegramChatID  *int64    `db:"telegram_chat_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// DefaultSettings returns the settings applied when a user has no row yet.
func DefaultSettings(userID uuid.UUID) *Settings {
	now := time.Now().UTC()
	return &Settings{
		ID:             uuid.New(),
		UserID:         userID,
		ConsoleEnabled: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
