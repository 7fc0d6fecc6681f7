package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	authzUseCase "github.com/orderloop/orderloop/internal/authz/usecase"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
	orderService "github.com/orderloop/orderloop/internal/order/service"
	userDomain "github.com/orderloop/orderloop/internal/user/domain"
	customValidation "github.com/orderloop/orderloop/internal/validation"
)

// orderContentType is the content type name the order module registers.
const orderContentType = "Order"

// orderUseCase implements OrderUseCase.
type orderUseCase struct {
	authorizer authzUseCase.AuthorizerUseCase
	broker     OrderTokenBroker
	orderRepo  OrderRepository
	pricer     orderService.Pricer
}

// Prepare validates and prices the order, then issues a token binding the
// quote. Validation failures short-circuit before any token is issued; a
// token is never created for an order that failed validation.
func (o *orderUseCase) Prepare(
	ctx context.Context,
	user *userDomain.User,
	input *orderDomain.PrepareOrderInput,
) (*PrepareOrderOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	prices, err := o.pricer.Price(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	payload := &orderDomain.OrderPayload{
		CustomerID:    user.ID,
		CustomerName:  input.CustomerName,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		ScheduledAt:   input.ScheduledAt,
		PaymentMethod: input.PaymentMethod,
		Items:         input.Items,
		Prices:        prices,
	}

	plainToken, err := o.broker.IssueOrderToken(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &PrepareOrderOutput{
		Token:  plainToken,
		Prices: prices,
	}, nil
}

// Create redeems the token and commits the order it carries. The order is
// built from the token payload, never from a fresh request body, so the
// committed order reflects exactly what was quoted.
func (o *orderUseCase) Create(
	ctx context.Context,
	user *userDomain.User,
	plainToken string,
) (*orderDomain.Order, error) {
	payload, err := o.broker.RedeemOrderToken(ctx, plainToken)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &orderDomain.Order{
		ID:            uuid.Must(uuid.NewV7()),
		CustomerID:    payload.CustomerID,
		Status:        orderDomain.StatusPending,
		CustomerName:  payload.CustomerName,
		Phone:         payload.Phone,
		Email:         payload.Email,
		Address:       payload.Address,
		ScheduledAt:   payload.ScheduledAt,
		PaymentMethod: payload.PaymentMethod,
		Items:         payload.Items,
		Prices:        payload.Prices,
		ContentMeta: orderDomain.ContentMeta{
			CreatedAt:   now,
			UpdatedAt:   now,
			PublishedAt: &now,
		},
	}

	if err := o.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// Track returns tracking info for an order the caller may view. Ownership
// selects the permission scope: owners need ViewOwn, everyone else ViewAll.
// Callers without view permission get the uniform denial whether or not the
// order exists.
func (o *orderUseCase) Track(
	ctx context.Context,
	user *userDomain.User,
	orderID uuid.UUID,
) (*orderDomain.TrackingInfo, error) {
	order, err := o.loadAuthorized(ctx, user, orderID, authzDomain.KindView)
	if err != nil {
		return nil, err
	}

	return &orderDomain.TrackingInfo{
		OrderID:     order.ID,
		Status:      order.Status,
		ScheduledAt: order.ScheduledAt,
		CreatedAt:   order.CreatedAt,
	}, nil
}

// Cancel cancels an order the caller may edit.
func (o *orderUseCase) Cancel(
	ctx context.Context,
	user *userDomain.User,
	orderID uuid.UUID,
	reason string,
) (*orderDomain.Order, error) {
	order, err := o.loadAuthorized(ctx, user, orderID, authzDomain.KindEdit)
	if err != nil {
		return nil, err
	}

	if order.Status == orderDomain.StatusCancelled {
		return nil, orderDomain.ErrOrderAlreadyCancelled
	}

	if err := o.orderRepo.Cancel(ctx, orderID, reason); err != nil {
		return nil, err
	}

	order.Status = orderDomain.StatusCancelled
	order.CancelReason = reason
	order.UpdatedAt = time.Now().UTC()

	return order, nil
}

// loadAuthorized fetches the order and authorizes the caller for the given
// operation kind with the correct ownership scope.
//
// When the order does not exist, not-found is only revealed to callers
// holding the all-scope permission. Own-scoped callers get the uniform
// denial for missing and foreign orders alike, so probing IDs cannot
// distinguish "does not exist" from "belongs to someone else".
func (o *orderUseCase) loadAuthorized(
	ctx context.Context,
	user *userDomain.User,
	orderID uuid.UUID,
	kind authzDomain.Kind,
) (*orderDomain.Order, error) {
	order, err := o.orderRepo.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderDomain.ErrOrderNotFound) {
			if authErr := o.authorizer.AuthorizeUser(ctx, user, kind, orderContentType, false); authErr != nil {
				return nil, authErr
			}
		}
		return nil, err
	}

	owned := order.CustomerID == user.ID
	if err := o.authorizer.AuthorizeUser(ctx, user, kind, orderContentType, owned); err != nil {
		return nil, err
	}

	return order, nil
}

// NewOrderUseCase creates a new OrderUseCase with the provided dependencies.
func NewOrderUseCase(
	authorizer authzUseCase.AuthorizerUseCase,
	broker OrderTokenBroker,
	orderRepo OrderRepository,
	pricer orderService.Pricer,
) OrderUseCase {
	return &orderUseCase{
		authorizer: authorizer,
		broker:     broker,
		orderRepo:  orderRepo,
		pricer:     pricer,
	}
}
