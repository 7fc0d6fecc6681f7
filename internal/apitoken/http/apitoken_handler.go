// Package http provides HTTP handlers for API token management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
	"github.com/orderloop/orderloop/internal/apitoken/http/dto"
	apitokenUseCase "github.com/orderloop/orderloop/internal/apitoken/usecase"
	authzHTTP "github.com/orderloop/orderloop/internal/authz/http"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	"github.com/orderloop/orderloop/internal/httputil"
	customValidation "github.com/orderloop/orderloop/internal/validation"
)

// APITokenHandler handles HTTP requests for the caller's own API tokens.
// All routes require an authenticated user in the request context.
type APITokenHandler struct {
	apiTokenUseCase apitokenUseCase.APITokenUseCase
	logger          *slog.Logger
}

// NewAPITokenHandler creates a new API token handler with required dependencies.
func NewAPITokenHandler(
	apiTokenUseCase apitokenUseCase.APITokenUseCase,
	logger *slog.Logger,
) *APITokenHandler {
	return &APITokenHandler{
		apiTokenUseCase: apiTokenUseCase,
		logger:          logger,
	}
}

// IssueAPITokenHandler issues a new API token for the authenticated user,
// replacing any previous token for the requested mode.
// POST /v1/tokens - requires the GenerateOwnApiToken permission.
// Returns 201 Created with the plain token; it is never shown again.
func (h *APITokenHandler) IssueAPITokenHandler(c *gin.Context) {
	user, ok := authzHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.IssueAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.apiTokenUseCase.Issue(c.Request.Context(), user.ID, apitokenDomain.Mode(req.Mode))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.IssueAPITokenResponse{
		Token: output.PlainToken,
		Mode:  req.Mode,
	})
}

// GetAPITokenHandler returns the authenticated user's token metadata for a mode.
// GET /v1/tokens?mode=production
// Returns 404 if no token is issued for that mode.
func (h *APITokenHandler) GetAPITokenHandler(c *gin.Context) {
	user, ok := authzHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	mode := apitokenDomain.Mode(c.DefaultQuery("mode", string(apitokenDomain.ModeProduction)))

	token, err := h.apiTokenUseCase.Get(c.Request.Context(), user.ID, mode)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPITokenResponse(token))
}

// RevokeAPITokenHandler revokes the authenticated user's token for a mode.
// DELETE /v1/tokens
// Returns 204 No Content on success, 404 if no token exists for that mode.
func (h *APITokenHandler) RevokeAPITokenHandler(c *gin.Context) {
	user, ok := authzHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.RevokeAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.apiTokenUseCase.Revoke(c.Request.Context(), user.ID, apitokenDomain.Mode(req.Mode))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
