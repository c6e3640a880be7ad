package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/college-plan-api/pkg/errors"
)

// User is an administrator account.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserRepository manages administrator accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository builds repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername returns one account.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	const query = `SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`
	if err := r.db.GetContext(ctx, &u, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Create inserts an account.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash, role string) (*User, error) {
	u := User{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now().UTC()}
	const query = `INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}
