package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/orderloop/orderloop/internal/errors"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"Unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"Forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"Expired", apperrors.Wrap(apperrors.ErrExpired, "order token expired"), http.StatusGone, "expired"},
		{"NotFound", apperrors.Wrap(apperrors.ErrNotFound, "order token not found"), http.StatusNotFound, "not_found"},
		{"Conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"InvalidInput", apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
		{"Internal", assert.AnError, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t)

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantError, response.Error)
		})
	}
}

func TestHandleErrorGin_UniformUnauthorizedBody(t *testing.T) {
	// Denied responses must be identical regardless of cause.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c1, w1 := testContext(t)
	HandleErrorGin(c1, apperrors.ErrUnauthorized, logger)

	c2, w2 := testContext(t)
	HandleErrorGin(c2, apperrors.Wrap(apperrors.ErrUnauthorized, "missing grant OrderViewOwn"), logger)

	assert.Equal(t, w1.Body.String(), w2.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := testContext(t)

	HandleBadRequestGin(c, assert.AnError, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := testContext(t)

	HandleValidationErrorGin(c, assert.AnError, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "validation_error", response.Error)
}
