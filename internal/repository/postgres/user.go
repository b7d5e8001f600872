package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"argus/internal/domain/user"
	"argus/pkg/errors"
)

// Compile-time check
var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository using sqlx
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.CreatedAt)
	return err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User

	query := `SELECT * FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "user %s", id)
		}
		return nil, err
	}

	return &u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User

	query := `SELECT * FROM users WHERE email = $1`

	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "user %s", email)
		}
		return nil, err
	}

	return &u, nil
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var users []*user.User

	query := `SELECT * FROM users ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}

	return users, nil
}
