// Package usecase defines business logic for issuing and resolving API tokens.
package usecase

import (
	"context"

	"github.com/google/uuid"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
)

// APITokenRepository defines persistence operations for API tokens.
// Implementations must support transaction-aware operations via context propagation.
type APITokenRepository interface {
	// Create stores a new API token in the repository.
	Create(ctx context.Context, token *apitokenDomain.APIToken) error

	// GetByTokenHash retrieves a token by hash within a mode.
	// Returns ErrAPITokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string, mode apitokenDomain.Mode) (*apitokenDomain.APIToken, error)

	// GetByUserAndMode retrieves the user's token for a mode.
	// Returns ErrAPITokenNotFound if not found.
	GetByUserAndMode(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) (*apitokenDomain.APIToken, error)

	// DeleteByUserAndMode removes the user's token for a mode and
	// reports how many rows were removed.
	DeleteByUserAndMode(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) (int64, error)

	// DeleteByTokenHash removes the token with the given hash and reports
	// how many rows were removed.
	DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error)
}

// APITokenUseCase defines business logic operations for API token lifecycle.
type APITokenUseCase interface {
	// Issue generates a new token for the user in the given mode, replacing
	// any previously issued token for that (user, mode) pair. The plain
	// token is returned exactly once.
	Issue(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) (*apitokenDomain.IssueAPITokenOutput, error)

	// Revoke removes the user's token for a mode.
	// Returns ErrAPITokenNotFound if the user holds no token in that mode.
	Revoke(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) error

	// RevokeToken removes the token matching the plain credential.
	// Returns ErrAPITokenNotFound if the token does not exist.
	RevokeToken(ctx context.Context, plainToken string) error

	// Resolve maps a plain token to the owning user ID within a mode.
	// An unknown token resolves to (uuid.Nil, false) without error so that
	// callers can produce a uniform authentication failure.
	Resolve(ctx context.Context, plainToken string, mode apitokenDomain.Mode) (uuid.UUID, bool, error)

	// Get retrieves the user's token metadata for a mode.
	// Returns ErrAPITokenNotFound if the user holds no token in that mode.
	Get(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) (*apitokenDomain.APIToken, error)
}
