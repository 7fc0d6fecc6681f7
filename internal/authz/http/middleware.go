package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	authzUseCase "github.com/orderloop/orderloop/internal/authz/usecase"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	"github.com/orderloop/orderloop/internal/httputil"
)

// AuthenticationMiddleware resolves the Bearer token in the Authorization
// header to a user and stores it in the request context for downstream
// handlers via GetUser().
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
//
// Every failure — missing header, malformed header, unknown token, missing
// user — responds 401 with the same body, so callers cannot distinguish
// which part failed.
func AuthenticationMiddleware(
	authorizer authzUseCase.AuthorizerUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainToken, ok := bearerToken(c)
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		user, err := authorizer.AuthenticateToken(c.Request.Context(), plainToken)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("user_id", user.ID.String()))

		c.Next()
	}
}

// RequirePermission authorizes the authenticated user against the permission
// derived from (contentType, kind, owned). It MUST run after
// AuthenticationMiddleware.
//
// The owned flag selects the ownership scope of the derived permission; it
// says which permission is required, not whether the caller owns the target
// row. Handlers that operate on a specific record still compare record
// ownership themselves.
func RequirePermission(
	authorizer authzUseCase.AuthorizerUseCase,
	kind authzDomain.Kind,
	contentType string,
	owned bool,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c.Request.Context())
		if !ok || user == nil {
			logger.Debug("authorization failed: no authenticated user in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if err := authorizer.AuthorizeUser(c.Request.Context(), user, kind, contentType, owned); err != nil {
			logger.Debug("authorization failed",
				slog.String("user_id", user.ID.String()),
				slog.String("content_type", contentType),
				slog.String("kind", string(kind)))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermissionKey authorizes the authenticated user against an explicit
// permission key. It MUST run after AuthenticationMiddleware.
func RequirePermissionKey(
	authorizer authzUseCase.AuthorizerUseCase,
	key string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c.Request.Context())
		if !ok || user == nil {
			logger.Debug("authorization failed: no authenticated user in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if err := authorizer.AuthorizeKey(c.Request.Context(), user, key); err != nil {
			logger.Debug("authorization failed",
				slog.String("user_id", user.ID.String()),
				slog.String("permission_key", key))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// bearerToken extracts the plain token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	plainToken := authHeader[len(bearerPrefix):]
	if plainToken == "" {
		return "", false
	}
	return plainToken, true
}
