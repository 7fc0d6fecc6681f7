package app

import (
	"fmt"

	orderRepository "github.com/orderloop/orderloop/internal/order/repository"
	orderService "github.com/orderloop/orderloop/internal/order/service"
	orderUseCase "github.com/orderloop/orderloop/internal/order/usecase"
)

// OrderRepository returns the order repository instance.
func (c *Container) OrderRepository() (orderUseCase.OrderRepository, error) {
	c.orderRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["orderRepo"] = fmt.Errorf("failed to get database for order repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.orderRepo = orderRepository.NewMySQLOrderRepository(db)
		case "postgres":
			c.orderRepo = orderRepository.NewPostgreSQLOrderRepository(db)
		default:
			c.initErrors["orderRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["orderRepo"]; exists {
		return nil, storedErr
	}
	return c.orderRepo, nil
}

// OrderTokenRepository returns the order token repository instance.
func (c *Container) OrderTokenRepository() (orderUseCase.OrderTokenRepository, error) {
	c.orderTokenRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["orderTokenRepo"] = fmt.Errorf("failed to get database for order token repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.orderTokenRepo = orderRepository.NewMySQLOrderTokenRepository(db)
		case "postgres":
			c.orderTokenRepo = orderRepository.NewPostgreSQLOrderTokenRepository(db)
		default:
			c.initErrors["orderTokenRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["orderTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.orderTokenRepo, nil
}

// ProductRepository returns the product repository instance.
func (c *Container) ProductRepository() (orderUseCase.ProductRepository, error) {
	c.productRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["productRepo"] = fmt.Errorf("failed to get database for product repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.productRepo = orderRepository.NewMySQLProductRepository(db)
		case "postgres":
			c.productRepo = orderRepository.NewPostgreSQLProductRepository(db)
		default:
			c.initErrors["productRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["productRepo"]; exists {
		return nil, storedErr
	}
	return c.productRepo, nil
}

// Pricer returns the catalog pricer instance.
func (c *Container) Pricer() (orderService.Pricer, error) {
	c.pricerInit.Do(func() {
		productRepo, err := c.ProductRepository()
		if err != nil {
			c.initErrors["pricer"] = fmt.Errorf("failed to get product repository for pricer: %w", err)
			return
		}

		c.pricer = orderService.NewCatalogPricer(c.config, productRepo)
	})
	if storedErr, exists := c.initErrors["pricer"]; exists {
		return nil, storedErr
	}
	return c.pricer, nil
}

// OrderTokenBroker returns the order token broker instance.
func (c *Container) OrderTokenBroker() (orderUseCase.OrderTokenBroker, error) {
	c.orderTokenBrokerInit.Do(func() {
		tokenRepo, err := c.OrderTokenRepository()
		if err != nil {
			c.initErrors["orderTokenBroker"] = fmt.Errorf("failed to get order token repository for broker: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["orderTokenBroker"] = fmt.Errorf("failed to get business metrics for broker: %w", err)
			return
		}

		c.orderTokenBroker = orderUseCase.NewOrderTokenBroker(c.config, tokenRepo, c.TokenService(), businessMetrics)
	})
	if storedErr, exists := c.initErrors["orderTokenBroker"]; exists {
		return nil, storedErr
	}
	return c.orderTokenBroker, nil
}

// OrderUseCase returns the order flow use case instance.
func (c *Container) OrderUseCase() (orderUseCase.OrderUseCase, error) {
	c.orderUseCaseInit.Do(func() {
		authorizer, err := c.Authorizer()
		if err != nil {
			c.initErrors["orderUseCase"] = fmt.Errorf("failed to get authorizer for order use case: %w", err)
			return
		}

		broker, err := c.OrderTokenBroker()
		if err != nil {
			c.initErrors["orderUseCase"] = fmt.Errorf("failed to get order token broker for order use case: %w", err)
			return
		}

		orderRepo, err := c.OrderRepository()
		if err != nil {
			c.initErrors["orderUseCase"] = fmt.Errorf("failed to get order repository for order use case: %w", err)
			return
		}

		pricer, err := c.Pricer()
		if err != nil {
			c.initErrors["orderUseCase"] = fmt.Errorf("failed to get pricer for order use case: %w", err)
			return
		}

		c.orderUseCase = orderUseCase.NewOrderUseCase(authorizer, broker, orderRepo, pricer)
	})
	if storedErr, exists := c.initErrors["orderUseCase"]; exists {
		return nil, storedErr
	}
	return c.orderUseCase, nil
}
