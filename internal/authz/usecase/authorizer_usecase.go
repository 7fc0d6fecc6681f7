package usecase

import (
	"context"
	"errors"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
	apitokenUsecase "github.com/orderloop/orderloop/internal/apitoken/usecase"
	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/config"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	userDomain "github.com/orderloop/orderloop/internal/user/domain"
)

// authorizerUseCase implements AuthorizerUseCase.
type authorizerUseCase struct {
	config    *config.Config
	apiTokens apitokenUsecase.APITokenUseCase
	userRepo  UserRepository
	registry  RegistryUseCase
}

// AuthenticateToken resolves a plain API token to its user.
//
// Every authentication failure (empty token, unknown token, missing user)
// collapses into ErrUnauthorized so responses cannot be used to probe which
// tokens or users exist. Infrastructure errors are propagated as-is.
func (a *authorizerUseCase) AuthenticateToken(
	ctx context.Context,
	plainToken string,
) (*userDomain.User, error) {
	if plainToken == "" {
		return nil, apperrors.ErrUnauthorized
	}

	userID, ok, err := a.apiTokens.Resolve(ctx, plainToken, apitokenDomain.Mode(a.config.APITokenMode))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := a.userRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// AuthorizeUser checks an authenticated user against the permission derived
// from (contentType, kind, owned). Fails closed: an unknown kind, an
// unregistered content type, or an unsupported action all deny exactly like
// a missing grant.
func (a *authorizerUseCase) AuthorizeUser(
	ctx context.Context,
	user *userDomain.User,
	kind authzDomain.Kind,
	contentType string,
	owned bool,
) error {
	action, err := authzDomain.ActionFor(kind, owned)
	if err != nil {
		return apperrors.ErrUnauthorized
	}

	key, err := a.registry.ContentRegistry().KeyFor(contentType, action)
	if err != nil {
		return apperrors.ErrUnauthorized
	}

	return a.AuthorizeKey(ctx, user, key)
}

// AuthorizeKey checks an authenticated user against an explicit permission key.
func (a *authorizerUseCase) AuthorizeKey(
	ctx context.Context,
	user *userDomain.User,
	key string,
) error {
	if user == nil {
		return apperrors.ErrUnauthorized
	}

	granted, err := a.registry.HasPermission(ctx, user.Roles, key)
	if err != nil {
		return err
	}
	if !granted {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// Authorize authenticates the token and authorizes the derived permission in
// one step. Returns the user so handlers can apply ownership checks.
func (a *authorizerUseCase) Authorize(
	ctx context.Context,
	plainToken string,
	kind authzDomain.Kind,
	contentType string,
	owned bool,
) (*userDomain.User, error) {
	user, err := a.AuthenticateToken(ctx, plainToken)
	if err != nil {
		return nil, err
	}

	if err := a.AuthorizeUser(ctx, user, kind, contentType, owned); err != nil {
		return nil, err
	}

	return user, nil
}

// NewAuthorizerUseCase creates a new AuthorizerUseCase with the provided dependencies.
func NewAuthorizerUseCase(
	cfg *config.Config,
	apiTokens apitokenUsecase.APITokenUseCase,
	userRepo UserRepository,
	registry RegistryUseCase,
) AuthorizerUseCase {
	return &authorizerUseCase{
		config:    cfg,
		apiTokens: apiTokens,
		userRepo:  userRepo,
		registry:  registry,
	}
}
