package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that owns holdings, rules and alerts.
// Single-user deployments operate on one default user resolved by email.
type User struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}
