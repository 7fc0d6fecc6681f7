package app

import (
	"fmt"

	apitokenRepository "github.com/orderloop/orderloop/internal/apitoken/repository"
	apitokenUseCase "github.com/orderloop/orderloop/internal/apitoken/usecase"
)

// APITokenRepository returns the API token repository instance.
func (c *Container) APITokenRepository() (apitokenUseCase.APITokenRepository, error) {
	c.apiTokenRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["apiTokenRepo"] = fmt.Errorf("failed to get database for api token repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.apiTokenRepo = apitokenRepository.NewMySQLAPITokenRepository(db)
		case "postgres":
			c.apiTokenRepo = apitokenRepository.NewPostgreSQLAPITokenRepository(db)
		default:
			c.initErrors["apiTokenRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["apiTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.apiTokenRepo, nil
}

// APITokenUseCase returns the API token use case instance.
func (c *Container) APITokenUseCase() (apitokenUseCase.APITokenUseCase, error) {
	c.apiTokenUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["apiTokenUseCase"] = fmt.Errorf("failed to get tx manager for api token use case: %w", err)
			return
		}

		tokenRepo, err := c.APITokenRepository()
		if err != nil {
			c.initErrors["apiTokenUseCase"] = fmt.Errorf("failed to get api token repository for api token use case: %w", err)
			return
		}

		c.apiTokenUseCase = apitokenUseCase.NewAPITokenUseCase(txManager, tokenRepo, c.TokenService())
	})
	if storedErr, exists := c.initErrors["apiTokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiTokenUseCase, nil
}
