package drill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// Users manages learner records
type Users struct {
	store UserStore
	now   func() time.Time
}

// NewUsers creates a new user service
func NewUsers(store UserStore) *Users {
	return &Users{store: store, now: time.Now}
}

// CreateUser registers a learner. The name must not be blank.
func (u *Users) CreateUser(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: user name must not be blank", ErrValidation)
	}
	user, err := u.store.CreateUser(ctx, name, u.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ListUsers returns all learners
func (u *Users) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := u.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a learner by ID, or nil when there is none
func (u *Users) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := u.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a learner together with all of their progress
func (u *Users) DeleteUser(ctx context.Context, userID int64) error {
	if err := u.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}

// EnsureDefaultUser returns the first learner, creating one with the given
// name when none exists yet.
func (u *Users) EnsureDefaultUser(ctx context.Context, name string) (*models.User, error) {
	users, err := u.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return &users[0], nil
	}
	return u.CreateUser(ctx, name)
}
