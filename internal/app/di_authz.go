package app

import (
	"fmt"

	authzRepository "github.com/orderloop/orderloop/internal/authz/repository"
	authzUseCase "github.com/orderloop/orderloop/internal/authz/usecase"
	userRepository "github.com/orderloop/orderloop/internal/user/repository"
)

// PermissionRepository returns the permission repository instance.
func (c *Container) PermissionRepository() (authzUseCase.PermissionRepository, error) {
	c.permissionRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["permissionRepo"] = fmt.Errorf("failed to get database for permission repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.permissionRepo = authzRepository.NewMySQLPermissionRepository(db)
		case "postgres":
			c.permissionRepo = authzRepository.NewPostgreSQLPermissionRepository(db)
		default:
			c.initErrors["permissionRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["permissionRepo"]; exists {
		return nil, storedErr
	}
	return c.permissionRepo, nil
}

// RoleRepository returns the role repository instance.
func (c *Container) RoleRepository() (authzUseCase.RoleRepository, error) {
	c.roleRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["roleRepo"] = fmt.Errorf("failed to get database for role repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.roleRepo = authzRepository.NewMySQLRoleRepository(db)
		case "postgres":
			c.roleRepo = authzRepository.NewPostgreSQLRoleRepository(db)
		default:
			c.initErrors["roleRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["roleRepo"]; exists {
		return nil, storedErr
	}
	return c.roleRepo, nil
}

// GrantRepository returns the role-permission grant repository instance.
func (c *Container) GrantRepository() (authzUseCase.GrantRepository, error) {
	c.grantRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["grantRepo"] = fmt.Errorf("failed to get database for grant repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.grantRepo = authzRepository.NewMySQLGrantRepository(db)
		case "postgres":
			c.grantRepo = authzRepository.NewPostgreSQLGrantRepository(db)
		default:
			c.initErrors["grantRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["grantRepo"]; exists {
		return nil, storedErr
	}
	return c.grantRepo, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (authzUseCase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = fmt.Errorf("failed to get database for user repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.userRepo = userRepository.NewMySQLUserRepository(db)
		case "postgres":
			c.userRepo = userRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// RegistryUseCase returns the permission registry use case instance.
func (c *Container) RegistryUseCase() (authzUseCase.RegistryUseCase, error) {
	c.registryUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["registryUseCase"] = fmt.Errorf("failed to get tx manager for registry use case: %w", err)
			return
		}

		permissionRepo, err := c.PermissionRepository()
		if err != nil {
			c.initErrors["registryUseCase"] = fmt.Errorf("failed to get permission repository for registry use case: %w", err)
			return
		}

		roleRepo, err := c.RoleRepository()
		if err != nil {
			c.initErrors["registryUseCase"] = fmt.Errorf("failed to get role repository for registry use case: %w", err)
			return
		}

		grantRepo, err := c.GrantRepository()
		if err != nil {
			c.initErrors["registryUseCase"] = fmt.Errorf("failed to get grant repository for registry use case: %w", err)
			return
		}

		c.registryUseCase = authzUseCase.NewRegistryUseCase(txManager, permissionRepo, roleRepo, grantRepo)
	})
	if storedErr, exists := c.initErrors["registryUseCase"]; exists {
		return nil, storedErr
	}
	return c.registryUseCase, nil
}

// Authorizer returns the authorization service instance.
func (c *Container) Authorizer() (authzUseCase.AuthorizerUseCase, error) {
	c.authorizerInit.Do(func() {
		apiTokens, err := c.APITokenUseCase()
		if err != nil {
			c.initErrors["authorizer"] = fmt.Errorf("failed to get api token use case for authorizer: %w", err)
			return
		}

		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["authorizer"] = fmt.Errorf("failed to get user repository for authorizer: %w", err)
			return
		}

		registry, err := c.RegistryUseCase()
		if err != nil {
			c.initErrors["authorizer"] = fmt.Errorf("failed to get registry use case for authorizer: %w", err)
			return
		}

		c.authorizer = authzUseCase.NewAuthorizerUseCase(c.config, apiTokens, userRepo, registry)
	})
	if storedErr, exists := c.initErrors["authorizer"]; exists {
		return nil, storedErr
	}
	return c.authorizer, nil
}
