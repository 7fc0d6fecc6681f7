package app

import (
	"fmt"

	userRepository "github.com/orderloop/orderloop/internal/user/repository"
	userUseCase "github.com/orderloop/orderloop/internal/user/usecase"
)

// UserUseCase returns the user provisioning use case instance.
func (c *Container) UserUseCase() (userUseCase.UserUseCase, error) {
	c.userUseCaseInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userUseCase"] = fmt.Errorf("failed to get database for user use case: %w", err)
			return
		}

		var repo userUseCase.UserRepository
		switch c.config.DBDriver {
		case "mysql":
			repo = userRepository.NewMySQLUserRepository(db)
		case "postgres":
			repo = userRepository.NewPostgreSQLUserRepository(db)
		default:
			c.initErrors["userUseCase"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
			return
		}

		c.userUseCase = userUseCase.NewUserUseCase(repo)
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}
