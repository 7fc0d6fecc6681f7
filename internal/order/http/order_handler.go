// Package http provides HTTP handlers for the two-phase order flow.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authzHTTP "github.com/orderloop/orderloop/internal/authz/http"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	"github.com/orderloop/orderloop/internal/httputil"
	"github.com/orderloop/orderloop/internal/order/http/dto"
	orderUseCase "github.com/orderloop/orderloop/internal/order/usecase"
	customValidation "github.com/orderloop/orderloop/internal/validation"
)

// OrderHandler handles HTTP requests for the order flow.
// All routes require an authenticated user in the request context.
type OrderHandler struct {
	orderUseCase orderUseCase.OrderUseCase
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler with required dependencies.
func NewOrderHandler(
	orderUseCase orderUseCase.OrderUseCase,
	logger *slog.Logger,
) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		logger:       logger,
	}
}

// PrepareOrderHandler validates and prices an order and returns a single-use
// token binding the quote. No authoritative state is mutated.
// POST /v1/order/prepare
// Returns 200 OK with the token and the quote.
func (h *OrderHandler) PrepareOrderHandler(c *gin.Context) {
	user, ok := authzHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.PrepareOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.orderUseCase.Prepare(c.Request.Context(), user, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewPrepareOrderResponse(output))
}

// CreateOrderHandler redeems a prepare token and commits the order it carries.
// POST /v1/order
// Returns 201 Created with the committed order; a spent or unknown token gets
// 404 and an expired one 410.
func (h *OrderHandler) CreateOrderHandler(c *gin.Context) {
	user, ok := authzHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	order, err := h.orderUseCase.Create(c.Request.Context(), user, req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

// TrackOrderHandler returns tracking info for an order the caller may view.
// POST /v1/order/track
func (h *OrderHandler) TrackOrderHandler(c *gin.Context) {
	user, ok := authzHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.TrackOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	orderID, err := parseOrderID(req.OrderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	info, err := h.orderUseCase.Track(c.Request.Context(), user, orderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewTrackOrderResponse(info))
}

// CancelOrderHandler cancels an order the caller may edit.
// POST /v1/order/cancel
func (h *OrderHandler) CancelOrderHandler(c *gin.Context) {
	user, ok := authzHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	orderID, err := parseOrderID(req.OrderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.Cancel(c.Request.Context(), user, orderID, req.Reason)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func parseOrderID(raw string) (uuid.UUID, error) {
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: order_id must be a valid UUID", apperrors.ErrInvalidInput)
	}
	return orderID, nil
}
