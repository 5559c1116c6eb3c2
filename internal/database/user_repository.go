package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user
func (r *UserRepository) CreateUser(ctx context.Context, name string, createdAt time.Time) (*models.User, error) {
	user := &models.User{Name: name, CreatedAt: createdAt.UTC()}
	query := r.db.Rebind("INSERT INTO users (name, created_at) VALUES (?, ?) RETURNING id")
	if err := r.db.QueryRowxContext(ctx, query, user.Name, user.CreatedAt).Scan(&user.ID); err != nil {
		return nil, mapError(err, "failed to create user")
	}
	return user, nil
}

// ListUsers returns all users ordered by ID
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, "SELECT id, name, created_at FROM users ORDER BY id"); err != nil {
		return nil, mapError(err, "failed to list users")
	}
	return users, nil
}

// GetUser returns a user by ID
func (r *UserRepository) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind("SELECT id, name, created_at FROM users WHERE id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "failed to get user by ID")
	}
	return &user, nil
}

// DeleteUser removes a user and all of their progress
func (r *UserRepository) DeleteUser(ctx context.Context, userID int64) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{"word_progress", "grammar_progress"} {
			if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM "+table+" WHERE user_id = ?"), userID); err != nil {
				return mapError(err, "failed to delete "+table)
			}
		}

		res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM users WHERE id = ?"), userID)
		if err != nil {
			return mapError(err, "failed to delete user")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return mapError(err, "failed to delete user")
		}
		if n == 0 {
			return errors.Wrapf(drill.ErrUserNotFound, "id %d", userID)
		}
		return nil
	})
}
