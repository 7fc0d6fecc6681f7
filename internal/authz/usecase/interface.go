// Package usecase defines business logic interfaces for the authorization engine.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	userDomain "github.com/orderloop/orderloop/internal/user/domain"
)

// PermissionRepository defines persistence operations for permissions.
// Implementations must support transaction-aware operations via context propagation.
type PermissionRepository interface {
	// Create stores a new permission in the repository.
	Create(ctx context.Context, permission *authzDomain.Permission) error

	// GetByKey retrieves a permission by its unique key.
	// Returns ErrPermissionNotFound if not found.
	GetByKey(ctx context.Context, key string) (*authzDomain.Permission, error)
}

// RoleRepository defines persistence operations for roles.
// Implementations must support transaction-aware operations via context propagation.
type RoleRepository interface {
	// Create stores a new role in the repository.
	Create(ctx context.Context, role *authzDomain.Role) error

	// GetByName retrieves a role by its unique name.
	// Returns ErrRoleNotFound if not found.
	GetByName(ctx context.Context, name string) (*authzDomain.Role, error)
}

// GrantRepository defines persistence operations for role-permission grants.
// Implementations must support transaction-aware operations via context propagation.
type GrantRepository interface {
	// Create stores a new grant in the repository.
	Create(ctx context.Context, grant *authzDomain.RolePermissionGrant) error

	// Get retrieves the grant linking a role to a permission.
	// Returns ErrGrantNotFound if not found.
	Get(ctx context.Context, roleID, permissionID uuid.UUID) (*authzDomain.RolePermissionGrant, error)

	// ExistsGrantedForRoles reports whether any of the named roles holds a
	// positive grant for the permission. An empty role list yields false.
	ExistsGrantedForRoles(ctx context.Context, permissionID uuid.UUID, roleNames []string) (bool, error)
}

// UserRepository defines the user lookup the authorizer depends on.
type UserRepository interface {
	// Get retrieves a user with resolved role names.
	// Returns ErrUserNotFound if not found.
	Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)
}

// RegistryUseCase manages the permission catalog built from module
// declarations at boot, and answers role-based permission checks.
type RegistryUseCase interface {
	// RegisterModuleConfigs installs every module's declared roles, content
	// types, permissions, and grants. Registration is idempotent: re-running
	// with unchanged declarations is a no-op. Two modules declaring the same
	// permission key with different descriptions is a configuration bug and
	// fails with ErrDuplicateDefinition.
	RegisterModuleConfigs(ctx context.Context, configs []authzDomain.ModuleConfig) error

	// GetPermissionByKey retrieves a permission by key.
	// Returns ErrPermissionNotFound if not found.
	GetPermissionByKey(ctx context.Context, key string) (*authzDomain.Permission, error)

	// HasPermission reports whether any of the named roles holds a positive
	// grant for the permission key. A missing permission yields false, never
	// an error, so callers fail closed.
	HasPermission(ctx context.Context, roleNames []string, key string) (bool, error)

	// ContentRegistry exposes the content types registered at boot.
	ContentRegistry() *authzDomain.ContentTypeRegistry
}

// AuthorizerUseCase is the single entry point for answering "may this caller
// perform this action on this content type". Every failure, whatever its
// cause, surfaces as errors.ErrUnauthorized so that responses never reveal
// whether a token exists, a user exists, or a permission is merely missing.
type AuthorizerUseCase interface {
	// AuthenticateToken resolves a plain API token to its user.
	AuthenticateToken(ctx context.Context, plainToken string) (*userDomain.User, error)

	// AuthorizeUser checks an already-authenticated user against the
	// permission derived from (contentType, kind, owned).
	AuthorizeUser(ctx context.Context, user *userDomain.User, kind authzDomain.Kind, contentType string, owned bool) error

	// AuthorizeKey checks an already-authenticated user against an explicit
	// permission key that is not derived from a content type.
	AuthorizeKey(ctx context.Context, user *userDomain.User, key string) error

	// Authorize authenticates the token and authorizes the derived
	// permission in one step.
	Authorize(ctx context.Context, plainToken string, kind authzDomain.Kind, contentType string, owned bool) (*userDomain.User, error)
}
