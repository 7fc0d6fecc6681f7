// Package usecase implements business logic orchestration for API tokens.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
	apitokenService "github.com/orderloop/orderloop/internal/apitoken/service"
	"github.com/orderloop/orderloop/internal/database"
)

// apiTokenUseCase implements APITokenUseCase.
type apiTokenUseCase struct {
	txManager    database.TxManager
	tokenRepo    APITokenRepository
	tokenService apitokenService.TokenService
}

// Issue generates a new token for the user in the given mode.
//
// Replacement is atomic: the previous token (if any) is removed and the new
// one stored within a single transaction, so there is never a window where
// the user holds two live tokens, and the old token stops resolving the
// moment the new one exists.
func (a *apiTokenUseCase) Issue(
	ctx context.Context,
	userID uuid.UUID,
	mode apitokenDomain.Mode,
) (*apitokenDomain.IssueAPITokenOutput, error) {
	if !mode.Valid() {
		return nil, apitokenDomain.ErrInvalidMode
	}

	plainToken, tokenHash, err := a.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	token := &apitokenDomain.APIToken{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		TokenHash: tokenHash,
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
	}

	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := a.tokenRepo.DeleteByUserAndMode(ctx, userID, mode); err != nil {
			return err
		}
		return a.tokenRepo.Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	return &apitokenDomain.IssueAPITokenOutput{PlainToken: plainToken}, nil
}

// Revoke removes the user's token for a mode. Revoked tokens stop resolving
// immediately, which is how token expiry is realized.
func (a *apiTokenUseCase) Revoke(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) error {
	if !mode.Valid() {
		return apitokenDomain.ErrInvalidMode
	}

	affected, err := a.tokenRepo.DeleteByUserAndMode(ctx, userID, mode)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apitokenDomain.ErrAPITokenNotFound
	}
	return nil
}

// RevokeToken removes the token matching the plain credential. Used by
// operators holding the token itself rather than the owner's identity.
func (a *apiTokenUseCase) RevokeToken(ctx context.Context, plainToken string) error {
	tokenHash := a.tokenService.HashToken(plainToken)

	affected, err := a.tokenRepo.DeleteByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apitokenDomain.ErrAPITokenNotFound
	}
	return nil
}

// Resolve maps a plain token to the owning user ID within a mode.
//
// An unknown token is not an error here: the caller decides how to respond,
// and authentication middleware collapses it into the same failure as every
// other authorization problem to prevent token probing.
func (a *apiTokenUseCase) Resolve(
	ctx context.Context,
	plainToken string,
	mode apitokenDomain.Mode,
) (uuid.UUID, bool, error) {
	tokenHash := a.tokenService.HashToken(plainToken)

	token, err := a.tokenRepo.GetByTokenHash(ctx, tokenHash, mode)
	if err != nil {
		if errors.Is(err, apitokenDomain.ErrAPITokenNotFound) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}

	return token.UserID, true, nil
}

// Get retrieves the user's token metadata for a mode.
func (a *apiTokenUseCase) Get(
	ctx context.Context,
	userID uuid.UUID,
	mode apitokenDomain.Mode,
) (*apitokenDomain.APIToken, error) {
	if !mode.Valid() {
		return nil, apitokenDomain.ErrInvalidMode
	}
	return a.tokenRepo.GetByUserAndMode(ctx, userID, mode)
}

// NewAPITokenUseCase creates a new APITokenUseCase with the provided dependencies.
func NewAPITokenUseCase(
	txManager database.TxManager,
	tokenRepo APITokenRepository,
	tokenService apitokenService.TokenService,
) APITokenUseCase {
	return &apiTokenUseCase{
		txManager:    txManager,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
	}
}
