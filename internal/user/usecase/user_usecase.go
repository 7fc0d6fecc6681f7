package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	userDomain "github.com/orderloop/orderloop/internal/user/domain"
	customValidation "github.com/orderloop/orderloop/internal/validation"
)

// userUseCase implements UserUseCase.
type userUseCase struct {
	userRepo UserRepository
}

// Create validates the input and stores a new user.
func (u *userUseCase) Create(
	ctx context.Context,
	input *userDomain.CreateUserInput,
) (*userDomain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		Email:     input.Email,
		Roles:     input.Roles,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID.
func (u *userUseCase) Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	return u.userRepo.Get(ctx, userID)
}

// NewUserUseCase creates a new UserUseCase with the provided dependencies.
func NewUserUseCase(userRepo UserRepository) UserUseCase {
	return &userUseCase{userRepo: userRepo}
}
