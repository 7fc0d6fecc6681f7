package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
	userDomain "github.com/orderloop/orderloop/internal/user/domain"
)

// mockAuthorizer is a mock implementation of the authorizer for testing.
type mockAuthorizer struct {
	mock.Mock
}

func (m *mockAuthorizer) AuthenticateToken(ctx context.Context, plainToken string) (*userDomain.User, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockAuthorizer) AuthorizeUser(
	ctx context.Context,
	user *userDomain.User,
	kind authzDomain.Kind,
	contentType string,
	owned bool,
) error {
	args := m.Called(ctx, user, kind, contentType, owned)
	return args.Error(0)
}

func (m *mockAuthorizer) AuthorizeKey(ctx context.Context, user *userDomain.User, key string) error {
	args := m.Called(ctx, user, key)
	return args.Error(0)
}

func (m *mockAuthorizer) Authorize(
	ctx context.Context,
	plainToken string,
	kind authzDomain.Kind,
	contentType string,
	owned bool,
) (*userDomain.User, error) {
	args := m.Called(ctx, plainToken, kind, contentType, owned)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// mockBroker is a mock implementation of OrderTokenBroker for testing.
type mockBroker struct {
	mock.Mock
}

func (m *mockBroker) IssueOrderToken(ctx context.Context, payload *orderDomain.OrderPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *mockBroker) RedeemOrderToken(ctx context.Context, plainToken string) (*orderDomain.OrderPayload, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderDomain.OrderPayload), args.Error(1)
}

func (m *mockBroker) CleanExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// mockOrderRepository is a mock implementation of OrderRepository for testing.
type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *orderDomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) Get(ctx context.Context, orderID uuid.UUID) (*orderDomain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderDomain.Order), args.Error(1)
}

func (m *mockOrderRepository) Cancel(ctx context.Context, orderID uuid.UUID, reason string) error {
	args := m.Called(ctx, orderID, reason)
	return args.Error(0)
}

// mockPricer is a mock implementation of the Pricer service for testing.
type mockPricer struct {
	mock.Mock
}

func (m *mockPricer) Price(ctx context.Context, items []orderDomain.Item) (orderDomain.Prices, error) {
	args := m.Called(ctx, items)
	return args.Get(0).(orderDomain.Prices), args.Error(1)
}

func validPrepareInput() *orderDomain.PrepareOrderInput {
	return &orderDomain.PrepareOrderInput{
		CustomerName:  "Alice Smith",
		Phone:         "+5511999998888",
		Email:         "alice@example.com",
		Address:       "100 Main St",
		ScheduledAt:   time.Now().UTC().Add(2 * time.Hour),
		PaymentMethod: orderDomain.PaymentMethodCard,
		Items:         []orderDomain.Item{{ProductID: uuid.Must(uuid.NewV7()), Quantity: 2}},
	}
}

func TestOrderUseCase_Prepare(t *testing.T) {
	ctx := context.Background()
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Roles: []string{"Customer"}}

	t.Run("Success_ReturnsTokenAndQuote", func(t *testing.T) {
		broker := &mockBroker{}
		pricer := &mockPricer{}
		input := validPrepareInput()
		prices := orderDomain.Prices{SubtotalCents: 5000, DeliveryFeeCents: 500, TotalCents: 5500}

		pricer.On("Price", ctx, input.Items).Return(prices, nil).Once()
		broker.On("IssueOrderToken", ctx, mock.MatchedBy(func(payload *orderDomain.OrderPayload) bool {
			return payload.CustomerID == user.ID &&
				payload.CustomerName == input.CustomerName &&
				payload.Prices == prices
		})).
			Return("plain-order-token", nil).
			Once()

		uc := NewOrderUseCase(&mockAuthorizer{}, broker, &mockOrderRepository{}, pricer)
		output, err := uc.Prepare(ctx, user, input)

		require.NoError(t, err)
		assert.Equal(t, "plain-order-token", output.Token)
		assert.Equal(t, prices, output.Prices)
		broker.AssertExpectations(t)
	})

	t.Run("ValidationFailure_NoTokenIssued", func(t *testing.T) {
		broker := &mockBroker{}
		pricer := &mockPricer{}
		input := validPrepareInput()
		input.Email = "not-an-email"

		uc := NewOrderUseCase(&mockAuthorizer{}, broker, &mockOrderRepository{}, pricer)
		output, err := uc.Prepare(ctx, user, input)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Nil(t, output)
		pricer.AssertNotCalled(t, "Price", mock.Anything, mock.Anything)
		broker.AssertNotCalled(t, "IssueOrderToken", mock.Anything, mock.Anything)
	})

	t.Run("PricingFailure_NoTokenIssued", func(t *testing.T) {
		broker := &mockBroker{}
		pricer := &mockPricer{}
		input := validPrepareInput()

		pricer.On("Price", ctx, input.Items).
			Return(orderDomain.Prices{}, orderDomain.ErrProductUnknown).
			Once()

		uc := NewOrderUseCase(&mockAuthorizer{}, broker, &mockOrderRepository{}, pricer)
		output, err := uc.Prepare(ctx, user, input)

		assert.ErrorIs(t, err, orderDomain.ErrProductUnknown)
		assert.Nil(t, output)
		broker.AssertNotCalled(t, "IssueOrderToken", mock.Anything, mock.Anything)
	})
}

func TestOrderUseCase_Create(t *testing.T) {
	ctx := context.Background()
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Roles: []string{"Customer"}}

	t.Run("Success_CommitsOrderFromPayload", func(t *testing.T) {
		broker := &mockBroker{}
		orderRepo := &mockOrderRepository{}

		payload := &orderDomain.OrderPayload{
			CustomerID:    user.ID,
			CustomerName:  "Alice Smith",
			Phone:         "+5511999998888",
			Email:         "alice@example.com",
			Address:       "100 Main St",
			ScheduledAt:   time.Now().UTC().Add(2 * time.Hour),
			PaymentMethod: orderDomain.PaymentMethodCard,
			Items:         []orderDomain.Item{{ProductID: uuid.Must(uuid.NewV7()), Quantity: 2}},
			Prices:        orderDomain.Prices{SubtotalCents: 5000, DeliveryFeeCents: 500, TotalCents: 5500},
		}

		broker.On("RedeemOrderToken", ctx, "plain-order-token").Return(payload, nil).Once()
		orderRepo.On("Create", ctx, mock.MatchedBy(func(order *orderDomain.Order) bool {
			return order.CustomerID == user.ID &&
				order.Status == orderDomain.StatusPending &&
				order.Prices == payload.Prices &&
				order.PublishedAt != nil
		})).
			Return(nil).
			Once()

		uc := NewOrderUseCase(&mockAuthorizer{}, broker, orderRepo, &mockPricer{})
		order, err := uc.Create(ctx, user, "plain-order-token")

		require.NoError(t, err)
		assert.Equal(t, orderDomain.StatusPending, order.Status)
		assert.Equal(t, payload.Prices, order.Prices)
		orderRepo.AssertExpectations(t)
	})

	t.Run("SpentToken_NotFoundAndNoOrderCreated", func(t *testing.T) {
		broker := &mockBroker{}
		orderRepo := &mockOrderRepository{}

		broker.On("RedeemOrderToken", ctx, "spent-token").
			Return(nil, orderDomain.ErrOrderTokenNotFound).
			Once()

		uc := NewOrderUseCase(&mockAuthorizer{}, broker, orderRepo, &mockPricer{})
		order, err := uc.Create(ctx, user, "spent-token")

		assert.ErrorIs(t, err, orderDomain.ErrOrderTokenNotFound)
		assert.Nil(t, order)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ExpiredToken_ExpiredAndNoOrderCreated", func(t *testing.T) {
		broker := &mockBroker{}
		orderRepo := &mockOrderRepository{}

		broker.On("RedeemOrderToken", ctx, "stale-token").
			Return(nil, orderDomain.ErrOrderTokenExpired).
			Once()

		uc := NewOrderUseCase(&mockAuthorizer{}, broker, orderRepo, &mockPricer{})
		order, err := uc.Create(ctx, user, "stale-token")

		assert.ErrorIs(t, err, orderDomain.ErrOrderTokenExpired)
		assert.Nil(t, order)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestOrderUseCase_Track(t *testing.T) {
	ctx := context.Background()
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Roles: []string{"Customer"}}

	t.Run("Owner_RequiresViewOwnScope", func(t *testing.T) {
		authorizer := &mockAuthorizer{}
		orderRepo := &mockOrderRepository{}

		orderID := uuid.Must(uuid.NewV7())
		order := &orderDomain.Order{
			ID:          orderID,
			CustomerID:  user.ID,
			Status:      orderDomain.StatusPending,
			ScheduledAt: time.Now().UTC().Add(2 * time.Hour),
		}

		orderRepo.On("Get", ctx, orderID).Return(order, nil).Once()
		authorizer.On("AuthorizeUser", ctx, user, authzDomain.KindView, "Order", true).
			Return(nil).
			Once()

		uc := NewOrderUseCase(authorizer, &mockBroker{}, orderRepo, &mockPricer{})
		info, err := uc.Track(ctx, user, orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, info.OrderID)
		assert.Equal(t, orderDomain.StatusPending, info.Status)
		authorizer.AssertExpectations(t)
	})

	t.Run("NotOwner_RequiresViewAllScope", func(t *testing.T) {
		authorizer := &mockAuthorizer{}
		orderRepo := &mockOrderRepository{}

		orderID := uuid.Must(uuid.NewV7())
		order := &orderDomain.Order{
			ID:         orderID,
			CustomerID: uuid.Must(uuid.NewV7()),
			Status:     orderDomain.StatusPending,
		}

		orderRepo.On("Get", ctx, orderID).Return(order, nil).Once()
		authorizer.On("AuthorizeUser", ctx, user, authzDomain.KindView, "Order", false).
			Return(apperrors.ErrUnauthorized).
			Once()

		uc := NewOrderUseCase(authorizer, &mockBroker{}, orderRepo, &mockPricer{})
		info, err := uc.Track(ctx, user, orderID)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, info)
	})

	t.Run("MissingOrderWithoutAllScope_UniformDenial", func(t *testing.T) {
		authorizer := &mockAuthorizer{}
		orderRepo := &mockOrderRepository{}

		orderID := uuid.Must(uuid.NewV7())
		orderRepo.On("Get", ctx, orderID).Return(nil, orderDomain.ErrOrderNotFound).Once()
		authorizer.On("AuthorizeUser", ctx, user, authzDomain.KindView, "Order", false).
			Return(apperrors.ErrUnauthorized).
			Once()

		uc := NewOrderUseCase(authorizer, &mockBroker{}, orderRepo, &mockPricer{})
		info, err := uc.Track(ctx, user, orderID)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.NotErrorIs(t, err, orderDomain.ErrOrderNotFound)
		assert.Nil(t, info)
		authorizer.AssertExpectations(t)
	})

	t.Run("MissingOrderWithAllScope_NotFound", func(t *testing.T) {
		authorizer := &mockAuthorizer{}
		orderRepo := &mockOrderRepository{}

		orderID := uuid.Must(uuid.NewV7())
		orderRepo.On("Get", ctx, orderID).Return(nil, orderDomain.ErrOrderNotFound).Once()
		authorizer.On("AuthorizeUser", ctx, user, authzDomain.KindView, "Order", false).
			Return(nil).
			Once()

		uc := NewOrderUseCase(authorizer, &mockBroker{}, orderRepo, &mockPricer{})
		info, err := uc.Track(ctx, user, orderID)

		assert.ErrorIs(t, err, orderDomain.ErrOrderNotFound)
		assert.Nil(t, info)
	})

	t.Run("OwnScopeOnly_MissingAndForeignOrdersIndistinguishable", func(t *testing.T) {
		// A caller holding only the own-scoped view permission must get the
		// same denial whether an order ID is unused or belongs to someone
		// else; otherwise probing IDs reveals which ones exist.
		authorizer := &mockAuthorizer{}
		orderRepo := &mockOrderRepository{}

		missingID := uuid.Must(uuid.NewV7())
		foreignID := uuid.Must(uuid.NewV7())
		foreignOrder := &orderDomain.Order{
			ID:         foreignID,
			CustomerID: uuid.Must(uuid.NewV7()),
			Status:     orderDomain.StatusPending,
		}

		orderRepo.On("Get", ctx, missingID).Return(nil, orderDomain.ErrOrderNotFound).Once()
		orderRepo.On("Get", ctx, foreignID).Return(foreignOrder, nil).Once()
		authorizer.On("AuthorizeUser", ctx, user, authzDomain.KindView, "Order", false).
			Return(apperrors.ErrUnauthorized).
			Twice()

		uc := NewOrderUseCase(authorizer, &mockBroker{}, orderRepo, &mockPricer{})

		_, missingErr := uc.Track(ctx, user, missingID)
		_, foreignErr := uc.Track(ctx, user, foreignID)

		assert.ErrorIs(t, missingErr, apperrors.ErrUnauthorized)
		assert.ErrorIs(t, foreignErr, apperrors.ErrUnauthorized)
		assert.NotErrorIs(t, missingErr, orderDomain.ErrOrderNotFound)
		assert.Equal(t, missingErr, foreignErr)
		authorizer.AssertExpectations(t)
	})
}

func TestOrderUseCase_Cancel(t *testing.T) {
	ctx := context.Background()
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Roles: []string{"Customer"}}

	t.Run("Success_OwnerCancelsPendingOrder", func(t *testing.T) {
		authorizer := &mockAuthorizer{}
		orderRepo := &mockOrderRepository{}

		orderID := uuid.Must(uuid.NewV7())
		order := &orderDomain.Order{
			ID:         orderID,
			CustomerID: user.ID,
			Status:     orderDomain.StatusPending,
		}

		orderRepo.On("Get", ctx, orderID).Return(order, nil).Once()
		authorizer.On("AuthorizeUser", ctx, user, authzDomain.KindEdit, "Order", true).
			Return(nil).
			Once()
		orderRepo.On("Cancel", ctx, orderID, "changed my mind").Return(nil).Once()

		uc := NewOrderUseCase(authorizer, &mockBroker{}, orderRepo, &mockPricer{})
		got, err := uc.Cancel(ctx, user, orderID, "changed my mind")

		require.NoError(t, err)
		assert.Equal(t, orderDomain.StatusCancelled, got.Status)
		assert.Equal(t, "changed my mind", got.CancelReason)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Error_AlreadyCancelled", func(t *testing.T) {
		authorizer := &mockAuthorizer{}
		orderRepo := &mockOrderRepository{}

		orderID := uuid.Must(uuid.NewV7())
		order := &orderDomain.Order{
			ID:         orderID,
			CustomerID: user.ID,
			Status:     orderDomain.StatusCancelled,
		}

		orderRepo.On("Get", ctx, orderID).Return(order, nil).Once()
		authorizer.On("AuthorizeUser", ctx, user, authzDomain.KindEdit, "Order", true).
			Return(nil).
			Once()

		uc := NewOrderUseCase(authorizer, &mockBroker{}, orderRepo, &mockPricer{})
		got, err := uc.Cancel(ctx, user, orderID, "again")

		assert.ErrorIs(t, err, orderDomain.ErrOrderAlreadyCancelled)
		assert.Nil(t, got)
		orderRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Denied_NoEditPermission", func(t *testing.T) {
		authorizer := &mockAuthorizer{}
		orderRepo := &mockOrderRepository{}

		orderID := uuid.Must(uuid.NewV7())
		order := &orderDomain.Order{
			ID:         orderID,
			CustomerID: uuid.Must(uuid.NewV7()),
			Status:     orderDomain.StatusPending,
		}

		orderRepo.On("Get", ctx, orderID).Return(order, nil).Once()
		authorizer.On("AuthorizeUser", ctx, user, authzDomain.KindEdit, "Order", false).
			Return(apperrors.ErrUnauthorized).
			Once()

		uc := NewOrderUseCase(authorizer, &mockBroker{}, orderRepo, &mockPricer{})
		got, err := uc.Cancel(ctx, user, orderID, "not mine")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, got)
	})
}
