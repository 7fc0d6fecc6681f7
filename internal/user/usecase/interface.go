// Package usecase defines business logic for user provisioning.
package usecase

import (
	"context"

	"github.com/google/uuid"

	userDomain "github.com/orderloop/orderloop/internal/user/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores a new user and their role memberships.
	Create(ctx context.Context, user *userDomain.User) error

	// Get retrieves a user with resolved role names.
	// Returns ErrUserNotFound if not found.
	Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)
}

// UserUseCase provisions and looks up users.
type UserUseCase interface {
	// Create validates the input and stores a new user. The named roles
	// must already exist; unknown role names are silently skipped by the
	// repository, so callers should register modules first.
	Create(ctx context.Context, input *userDomain.CreateUserInput) (*userDomain.User, error)

	// Get retrieves a user by ID.
	Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)
}
