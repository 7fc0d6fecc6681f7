// Package usecase implements the authorization engine's business logic.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/database"
)

// registryUseCase implements RegistryUseCase.
type registryUseCase struct {
	txManager       database.TxManager
	permissionRepo  PermissionRepository
	roleRepo        RoleRepository
	grantRepo       GrantRepository
	contentRegistry *authzDomain.ContentTypeRegistry
}

// RegisterModuleConfigs installs every module's declarations inside a single
// transaction: either the whole catalog is in place when the server starts
// accepting requests, or none of it is.
//
// Idempotency rules:
//   - A permission key that already exists with the same description is
//     skipped. A differing description means two modules disagree about what
//     the key means and registration fails with ErrDuplicateDefinition.
//   - Roles are created on first sight and reused afterward.
//   - Seed grants are only created when no grant record exists for the
//     (role, permission) pair. Existing records are never overwritten, so
//     operator changes to the matrix survive restarts.
func (r *registryUseCase) RegisterModuleConfigs(
	ctx context.Context,
	configs []authzDomain.ModuleConfig,
) error {
	// Content type capabilities live in memory and must be complete before
	// any derived permission key is built.
	for _, cfg := range configs {
		for _, capability := range cfg.ContentTypes {
			if err := r.contentRegistry.Register(capability); err != nil {
				return fmt.Errorf("module %q: %w", cfg.Name, err)
			}
		}
	}

	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, cfg := range configs {
			if err := r.registerModule(ctx, cfg); err != nil {
				return fmt.Errorf("module %q: %w", cfg.Name, err)
			}
		}
		return nil
	})
}

func (r *registryUseCase) registerModule(ctx context.Context, cfg authzDomain.ModuleConfig) error {
	for _, name := range cfg.Roles {
		if _, err := r.ensureRole(ctx, name); err != nil {
			return err
		}
	}

	// Content-derived permissions: one per (content type, supported action).
	for _, capability := range cfg.ContentTypes {
		for _, action := range capability.Actions {
			key, err := authzDomain.PermissionKey(capability.Name, action)
			if err != nil {
				return err
			}
			description := describePermission(capability.Name, action)
			if _, err := r.ensurePermission(ctx, key, description, cfg.Group); err != nil {
				return err
			}
		}
	}

	// Explicitly declared permissions, e.g. GenerateOwnApiToken.
	for _, def := range cfg.Permissions {
		if _, err := r.ensurePermission(ctx, def.Key, def.Description, cfg.Group); err != nil {
			return err
		}
	}

	for _, grant := range cfg.DefaultGrants {
		key, err := authzDomain.PermissionKey(grant.ContentType, grant.Action)
		if err != nil {
			return err
		}
		if err := r.seedGrant(ctx, key, grant.Roles); err != nil {
			return err
		}
	}

	for _, grant := range cfg.KeyGrants {
		if err := r.seedGrant(ctx, grant.Key, grant.Roles); err != nil {
			return err
		}
	}

	return nil
}

// ensureRole returns the role, creating it when absent.
func (r *registryUseCase) ensureRole(ctx context.Context, name string) (*authzDomain.Role, error) {
	role, err := r.roleRepo.GetByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, authzDomain.ErrRoleNotFound) {
		return nil, err
	}

	role = &authzDomain.Role{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ensurePermission returns the permission, creating it when absent. A key
// that already exists with a different description fails with
// ErrDuplicateDefinition.
func (r *registryUseCase) ensurePermission(
	ctx context.Context,
	key, description, group string,
) (*authzDomain.Permission, error) {
	permission, err := r.permissionRepo.GetByKey(ctx, key)
	if err == nil {
		if permission.Description != description {
			return nil, fmt.Errorf("%w: %s", authzDomain.ErrDuplicateDefinition, key)
		}
		return permission, nil
	}
	if !errors.Is(err, authzDomain.ErrPermissionNotFound) {
		return nil, err
	}

	permission = &authzDomain.Permission{
		ID:          uuid.Must(uuid.NewV7()),
		Key:         key,
		Description: description,
		Group:       group,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.permissionRepo.Create(ctx, permission); err != nil {
		return nil, err
	}
	return permission, nil
}

// seedGrant creates positive grants linking each role to the permission key,
// skipping pairs that already have a grant record.
func (r *registryUseCase) seedGrant(ctx context.Context, key string, roleNames []string) error {
	permission, err := r.permissionRepo.GetByKey(ctx, key)
	if err != nil {
		return err
	}

	for _, name := range roleNames {
		role, err := r.roleRepo.GetByName(ctx, name)
		if err != nil {
			return err
		}

		_, err = r.grantRepo.Get(ctx, role.ID, permission.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, authzDomain.ErrGrantNotFound) {
			return err
		}

		grant := &authzDomain.RolePermissionGrant{
			ID:           uuid.Must(uuid.NewV7()),
			RoleID:       role.ID,
			PermissionID: permission.ID,
			Granted:      true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := r.grantRepo.Create(ctx, grant); err != nil {
			return err
		}
	}

	return nil
}

// GetPermissionByKey retrieves a permission by key.
func (r *registryUseCase) GetPermissionByKey(
	ctx context.Context,
	key string,
) (*authzDomain.Permission, error) {
	return r.permissionRepo.GetByKey(ctx, key)
}

// HasPermission reports whether any of the named roles holds a positive grant
// for the key. Unknown keys and empty role lists yield false without error:
// a caller asking about a permission nobody declared must be denied, not
// crashed.
func (r *registryUseCase) HasPermission(
	ctx context.Context,
	roleNames []string,
	key string,
) (bool, error) {
	if len(roleNames) == 0 {
		return false, nil
	}

	permission, err := r.permissionRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, authzDomain.ErrPermissionNotFound) {
			return false, nil
		}
		return false, err
	}

	return r.grantRepo.ExistsGrantedForRoles(ctx, permission.ID, roleNames)
}

// ContentRegistry exposes the content types registered at boot.
func (r *registryUseCase) ContentRegistry() *authzDomain.ContentTypeRegistry {
	return r.contentRegistry
}

// describePermission builds the human-readable description for a
// content-derived permission.
func describePermission(contentType string, action authzDomain.Action) string {
	var verb string
	switch action {
	case authzDomain.ActionAdd:
		verb = "add"
	case authzDomain.ActionViewOwn:
		verb = "view own"
	case authzDomain.ActionViewAll:
		verb = "view all"
	case authzDomain.ActionViewPublished:
		verb = "view published"
	case authzDomain.ActionEditOwn:
		verb = "edit own"
	case authzDomain.ActionEdit:
		verb = "edit any"
	case authzDomain.ActionRemoveOwn:
		verb = "remove own"
	case authzDomain.ActionRemove:
		verb = "remove any"
	}
	return fmt.Sprintf("Can %s %s", verb, contentType)
}

// NewRegistryUseCase creates a new RegistryUseCase with the provided dependencies.
func NewRegistryUseCase(
	txManager database.TxManager,
	permissionRepo PermissionRepository,
	roleRepo RoleRepository,
	grantRepo GrantRepository,
) RegistryUseCase {
	return &registryUseCase{
		txManager:       txManager,
		permissionRepo:  permissionRepo,
		roleRepo:        roleRepo,
		grantRepo:       grantRepo,
		contentRegistry: authzDomain.NewContentTypeRegistry(),
	}
}
