package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/config"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	userDomain "github.com/orderloop/orderloop/internal/user/domain"
)

// mockAPITokenUseCase is a mock implementation of the API token use case for testing.
type mockAPITokenUseCase struct {
	mock.Mock
}

func (m *mockAPITokenUseCase) Issue(
	ctx context.Context,
	userID uuid.UUID,
	mode apitokenDomain.Mode,
) (*apitokenDomain.IssueAPITokenOutput, error) {
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

func (m *mockAPITokenUseCase) Resolve(
	ctx context.Context,
	plainToken string,
	mode apitokenDomain.Mode,
) (uuid.UUID, bool, error) {
	args := m.Called(ctx, plainToken, mode)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *mockAPITokenUseCase) Get(
	ctx context.Context,
	userID uuid.UUID,
	mode apitokenDomain.Mode,
) (*apitokenDomain.APIToken, error) {
	args := m.Called(ctx, userID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apitokenDomain.APIToken), args.Error(1)
}

// mockUserRepository is a mock implementation of UserRepository for testing.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// mockRegistryUseCase is a mock implementation of RegistryUseCase for testing.
// The content registry is real so key derivation behaves as in production.
type mockRegistryUseCase struct {
	mock.Mock
	registry *authzDomain.ContentTypeRegistry
}

func newMockRegistryUseCase(t *testing.T) *mockRegistryUseCase {
	registry := authzDomain.NewContentTypeRegistry()
	err := registry.Register(authzDomain.ContentTypeCapability{
		Name: "Order",
		Actions: []authzDomain.Action{
			authzDomain.ActionAdd,
			authzDomain.ActionViewOwn,
			authzDomain.ActionViewAll,
			authzDomain.ActionEditOwn,
		},
	})
	require.NoError(t, err)
	return &mockRegistryUseCase{registry: registry}
}

func (m *mockRegistryUseCase) RegisterModuleConfigs(ctx context.Context, configs []authzDomain.ModuleConfig) error {
	args := m.Called(ctx, configs)
	return args.Error(0)
}

func (m *mockRegistryUseCase) GetPermissionByKey(ctx context.Context, key string) (*authzDomain.Permission, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authzDomain.Permission), args.Error(1)
}

func (m *mockRegistryUseCase) HasPermission(ctx context.Context, roleNames []string, key string) (bool, error) {
	args := m.Called(ctx, roleNames, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockRegistryUseCase) ContentRegistry() *authzDomain.ContentTypeRegistry {
	return m.registry
}

func testConfig() *config.Config {
	return &config.Config{APITokenMode: "production"}
}

func TestAuthorizerUseCase_AuthenticateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockTokens := &mockAPITokenUseCase{}
		mockUsers := &mockUserRepository{}
		mockRegistry := newMockRegistryUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		user := &userDomain.User{ID: userID, Name: "alice", Roles: []string{"Customer"}}

		mockTokens.On("Resolve", ctx, "plain-token", apitokenDomain.ModeProduction).
			Return(userID, true, nil).
			Once()
		mockUsers.On("Get", ctx, userID).Return(user, nil).Once()

		uc := NewAuthorizerUseCase(testConfig(), mockTokens, mockUsers, mockRegistry)
		got, err := uc.AuthenticateToken(ctx, "plain-token")

		assert.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("EmptyToken_Unauthorized", func(t *testing.T) {
		uc := NewAuthorizerUseCase(testConfig(), &mockAPITokenUseCase{}, &mockUserRepository{}, newMockRegistryUseCase(t))

		got, err := uc.AuthenticateToken(ctx, "")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, got)
	})

	t.Run("UnknownToken_Unauthorized", func(t *testing.T) {
		mockTokens := &mockAPITokenUseCase{}

		mockTokens.On("Resolve", ctx, "bogus", apitokenDomain.ModeProduction).
			Return(uuid.Nil, false, nil).
			Once()

		uc := NewAuthorizerUseCase(testConfig(), mockTokens, &mockUserRepository{}, newMockRegistryUseCase(t))
		got, err := uc.AuthenticateToken(ctx, "bogus")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, got)
	})

	t.Run("MissingUser_Unauthorized", func(t *testing.T) {
		mockTokens := &mockAPITokenUseCase{}
		mockUsers := &mockUserRepository{}

		userID := uuid.Must(uuid.NewV7())
		mockTokens.On("Resolve", ctx, "plain-token", apitokenDomain.ModeProduction).
			Return(userID, true, nil).
			Once()
		mockUsers.On("Get", ctx, userID).Return(nil, userDomain.ErrUserNotFound).Once()

		uc := NewAuthorizerUseCase(testConfig(), mockTokens, mockUsers, newMockRegistryUseCase(t))
		got, err := uc.AuthenticateToken(ctx, "plain-token")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, got)
	})

	t.Run("InfrastructureError_Propagates", func(t *testing.T) {
		mockTokens := &mockAPITokenUseCase{}

		infraErr := errors.New("connection lost")
		mockTokens.On("Resolve", ctx, "plain-token", apitokenDomain.ModeProduction).
			Return(uuid.Nil, false, infraErr).
			Once()

		uc := NewAuthorizerUseCase(testConfig(), mockTokens, &mockUserRepository{}, newMockRegistryUseCase(t))
		got, err := uc.AuthenticateToken(ctx, "plain-token")

		assert.ErrorIs(t, err, infraErr)
		assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, got)
	})
}

func TestAuthorizerUseCase_AuthorizeUser(t *testing.T) {
	ctx := context.Background()
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Roles: []string{"Customer"}}

	t.Run("Granted_OwnedScope", func(t *testing.T) {
		mockRegistry := newMockRegistryUseCase(t)

		mockRegistry.On("HasPermission", ctx, []string{"Customer"}, "OrderEditOwn").
			Return(true, nil).
			Once()

		uc := NewAuthorizerUseCase(testConfig(), &mockAPITokenUseCase{}, &mockUserRepository{}, mockRegistry)
		err := uc.AuthorizeUser(ctx, user, authzDomain.KindEdit, "Order", true)

		assert.NoError(t, err)
	})

	t.Run("Denied_MissingGrant", func(t *testing.T) {
		mockRegistry := newMockRegistryUseCase(t)

		mockRegistry.On("HasPermission", ctx, []string{"Customer"}, "OrderViewAll").
			Return(false, nil).
			Once()

		uc := NewAuthorizerUseCase(testConfig(), &mockAPITokenUseCase{}, &mockUserRepository{}, mockRegistry)
		err := uc.AuthorizeUser(ctx, user, authzDomain.KindView, "Order", false)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Denied_UnregisteredContentType", func(t *testing.T) {
		mockRegistry := newMockRegistryUseCase(t)

		uc := NewAuthorizerUseCase(testConfig(), &mockAPITokenUseCase{}, &mockUserRepository{}, mockRegistry)
		err := uc.AuthorizeUser(ctx, user, authzDomain.KindView, "Invoice", false)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		mockRegistry.AssertNotCalled(t, "HasPermission", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Denied_UnsupportedAction", func(t *testing.T) {
		mockRegistry := newMockRegistryUseCase(t)

		// Order supports EditOwn but not unscoped Edit.
		uc := NewAuthorizerUseCase(testConfig(), &mockAPITokenUseCase{}, &mockUserRepository{}, mockRegistry)
		err := uc.AuthorizeUser(ctx, user, authzDomain.KindEdit, "Order", false)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Denied_UnknownKind", func(t *testing.T) {
		mockRegistry := newMockRegistryUseCase(t)

		uc := NewAuthorizerUseCase(testConfig(), &mockAPITokenUseCase{}, &mockUserRepository{}, mockRegistry)
		err := uc.AuthorizeUser(ctx, user, authzDomain.Kind("publish"), "Order", false)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestAuthorizerUseCase_AuthorizeKey(t *testing.T) {
	ctx := context.Background()
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Roles: []string{"Customer"}}

	t.Run("Granted", func(t *testing.T) {
		mockRegistry := newMockRegistryUseCase(t)

		mockRegistry.On("HasPermission", ctx, []string{"Customer"}, "GenerateOwnApiToken").
			Return(true, nil).
			Once()

		uc := NewAuthorizerUseCase(testConfig(), &mockAPITokenUseCase{}, &mockUserRepository{}, mockRegistry)
		err := uc.AuthorizeKey(ctx, user, "GenerateOwnApiToken")

		assert.NoError(t, err)
	})

	t.Run("NilUser_Unauthorized", func(t *testing.T) {
		uc := NewAuthorizerUseCase(testConfig(), &mockAPITokenUseCase{}, &mockUserRepository{}, newMockRegistryUseCase(t))
		err := uc.AuthorizeKey(ctx, nil, "GenerateOwnApiToken")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestAuthorizerUseCase_Authorize(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_EndToEnd", func(t *testing.T) {
		mockTokens := &mockAPITokenUseCase{}
		mockUsers := &mockUserRepository{}
		mockRegistry := newMockRegistryUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		user := &userDomain.User{ID: userID, Roles: []string{"Customer"}}

		mockTokens.On("Resolve", ctx, "plain-token", apitokenDomain.ModeProduction).
			Return(userID, true, nil).
			Once()
		mockUsers.On("Get", ctx, userID).Return(user, nil).Once()
		mockRegistry.On("HasPermission", ctx, []string{"Customer"}, "OrderAdd").
			Return(true, nil).
			Once()

		uc := NewAuthorizerUseCase(testConfig(), mockTokens, mockUsers, mockRegistry)
		got, err := uc.Authorize(ctx, "plain-token", authzDomain.KindAdd, "Order", false)

		assert.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("DeniedAndUnknownTokenLookIdentical", func(t *testing.T) {
		mockTokens := &mockAPITokenUseCase{}
		mockUsers := &mockUserRepository{}
		mockRegistry := newMockRegistryUseCase(t)

		userID := uuid.Must(uuid.NewV7())
		user := &userDomain.User{ID: userID, Roles: []string{"Customer"}}

		mockTokens.On("Resolve", ctx, "known-token", apitokenDomain.ModeProduction).
			Return(userID, true, nil).
			Once()
		mockUsers.On("Get", ctx, userID).Return(user, nil).Once()
		mockRegistry.On("HasPermission", ctx, []string{"Customer"}, "OrderViewAll").
			Return(false, nil).
			Once()

		mockTokens.On("Resolve", ctx, "unknown-token", apitokenDomain.ModeProduction).
			Return(uuid.Nil, false, nil).
			Once()

		uc := NewAuthorizerUseCase(testConfig(), mockTokens, mockUsers, mockRegistry)

		_, errDenied := uc.Authorize(ctx, "known-token", authzDomain.KindView, "Order", false)
		_, errUnknown := uc.Authorize(ctx, "unknown-token", authzDomain.KindView, "Order", false)

		assert.ErrorIs(t, errDenied, apperrors.ErrUnauthorized)
		assert.ErrorIs(t, errUnknown, apperrors.ErrUnauthorized)
		assert.Equal(t, errDenied.Error(), errUnknown.Error())
	})
}
