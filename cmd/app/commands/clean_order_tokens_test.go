package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
)

// mockOrderTokenBroker is a mock implementation of orderUseCase.OrderTokenBroker for testing.
type mockOrderTokenBroker struct {
	mock.Mock
}

func (m *mockOrderTokenBroker) IssueOrderToken(ctx context.Context, payload *orderDomain.OrderPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *mockOrderTokenBroker) RedeemOrderToken(ctx context.Context, plainToken string) (*orderDomain.OrderPayload, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderDomain.OrderPayload), args.Error(1)
}

func (m *mockOrderTokenBroker) CleanExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestCleanOrderTokens(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		mockBroker := &mockOrderTokenBroker{}
		mockBroker.On("CleanExpiredTokens", ctx).Return(int64(10), nil)

		var out bytes.Buffer
		err := cleanOrderTokens(ctx, mockBroker, logger, &out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 10 expired order token(s)")
		mockBroker.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockBroker := &mockOrderTokenBroker{}
		mockBroker.On("CleanExpiredTokens", ctx).Return(int64(5), nil)

		var out bytes.Buffer
		err := cleanOrderTokens(ctx, mockBroker, logger, &out, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 5`)
	})

	t.Run("broker-error", func(t *testing.T) {
		mockBroker := &mockOrderTokenBroker{}
		mockBroker.On("CleanExpiredTokens", ctx).Return(int64(0), fmt.Errorf("connection refused"))

		var out bytes.Buffer
		err := cleanOrderTokens(ctx, mockBroker, logger, &out, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean expired order tokens")
		require.Empty(t, out.String())
	})
}

func TestParseMode(t *testing.T) {
	t.Run("valid-modes", func(t *testing.T) {
		for _, valid := range []string{"production", "test"} {
			mode, err := parseMode(valid)
			require.NoError(t, err)
			require.Equal(t, valid, string(mode))
		}
	})

	t.Run("invalid-mode", func(t *testing.T) {
		_, err := parseMode("sandbox")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid mode")
	})
}
