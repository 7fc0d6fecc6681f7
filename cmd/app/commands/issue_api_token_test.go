package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
)

// mockAPITokenUseCase is a mock implementation of apitokenUseCase.APITokenUseCase for testing.
type mockAPITokenUseCase struct {
	mock.Mock
}

func (m *mockAPITokenUseCase) Issue(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) (*apitokenDomain.IssueAPITokenOutput, error) {
	args := m.Called(ctx, userID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apitokenDomain.IssueAPITokenOutput), args.Error(1)
}

func (m *mockAPITokenUseCase) Revoke(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) error {
	args := m.Called(ctx, userID, mode)
	return args.Error(0)
}

func (m *mockAPITokenUseCase) RevokeToken(ctx context.Context, plainToken string) error {
	args := m.Called(ctx, plainToken)
	return args.Error(0)
}

func (m *mockAPITokenUseCase) Resolve(ctx context.Context, plainToken string, mode apitokenDomain.Mode) (uuid.UUID, bool, error) {
	args := m.Called(ctx, plainToken, mode)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *mockAPITokenUseCase) Get(ctx context.Context, userID uuid.UUID, mode apitokenDomain.Mode) (*apitokenDomain.APIToken, error) {
	args := m.Called(ctx, userID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apitokenDomain.APIToken), args.Error(1)
}

func TestIssueAPIToken(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	userID := uuid.Must(uuid.NewV7())

	t.Run("text-output", func(t *testing.T) {
		mockUC := &mockAPITokenUseCase{}
		mockUC.On("Issue", ctx, userID, apitokenDomain.ModeProduction).
			Return(&apitokenDomain.IssueAPITokenOutput{PlainToken: "plain-token-value"}, nil)

		var out bytes.Buffer
		err := issueAPIToken(ctx, mockUC, logger, &out, userID.String(), "production", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Token: plain-token-value")
		require.Contains(t, out.String(), "shown only once")
		mockUC.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUC := &mockAPITokenUseCase{}
		mockUC.On("Issue", ctx, userID, apitokenDomain.ModeTest).
			Return(&apitokenDomain.IssueAPITokenOutput{PlainToken: "plain-token-value"}, nil)

		var out bytes.Buffer
		err := issueAPIToken(ctx, mockUC, logger, &out, userID.String(), "test", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"token": "plain-token-value"`)
		require.Contains(t, out.String(), `"mode": "test"`)
	})

	t.Run("invalid-user-id", func(t *testing.T) {
		mockUC := &mockAPITokenUseCase{}

		var out bytes.Buffer
		err := issueAPIToken(ctx, mockUC, logger, &out, "not-a-uuid", "production", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid user ID")
		mockUC.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid-mode", func(t *testing.T) {
		mockUC := &mockAPITokenUseCase{}

		var out bytes.Buffer
		err := issueAPIToken(ctx, mockUC, logger, &out, userID.String(), "sandbox", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid mode")
	})
}
