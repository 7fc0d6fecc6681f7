package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authzUseCase "github.com/orderloop/orderloop/internal/authz/usecase"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	"github.com/orderloop/orderloop/internal/httputil"
)

// IdentityResolver extracts the session user's ID from a request. Session
// management is an external collaborator; the default implementation trusts
// the X-User-ID header as set by an upstream session gateway.
type IdentityResolver interface {
	ResolveIdentity(c *gin.Context) (uuid.UUID, bool)
}

// HeaderIdentityResolver resolves the session user from a request header.
type HeaderIdentityResolver struct {
	Header string
}

// NewHeaderIdentityResolver creates a resolver reading the X-User-ID header.
func NewHeaderIdentityResolver() *HeaderIdentityResolver {
	return &HeaderIdentityResolver{Header: "X-User-ID"}
}

// ResolveIdentity parses the configured header as a UUID.
func (r *HeaderIdentityResolver) ResolveIdentity(c *gin.Context) (uuid.UUID, bool) {
	value := c.GetHeader(r.Header)
	if value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SessionMiddleware resolves the session user and stores it in the request
// context. Used by the token management endpoints, which are reached by
// session users who may not hold an API token yet. Failures respond 401
// with the same body as every other authentication failure.
func SessionMiddleware(
	resolver IdentityResolver,
	userRepo authzUseCase.UserRepository,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolver.ResolveIdentity(c)
		if !ok {
			logger.Debug("session resolution failed: missing or invalid identity")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		user, err := userRepo.Get(c.Request.Context(), userID)
		if err != nil {
			logger.Debug("session resolution failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
