package app

import (
	"fmt"

	apitokenHTTP "github.com/orderloop/orderloop/internal/apitoken/http"
	authzHTTP "github.com/orderloop/orderloop/internal/authz/http"
	"github.com/orderloop/orderloop/internal/http"
	orderHTTP "github.com/orderloop/orderloop/internal/order/http"
)

// HTTPServer returns the API server with the full route table configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		logger := c.Logger()

		db, err := c.DB()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get database for http server: %w", err)
			return
		}

		authorizer, err := c.Authorizer()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get authorizer for http server: %w", err)
			return
		}

		userRepo, err := c.UserRepository()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get user repository for http server: %w", err)
			return
		}

		apiTokenUseCase, err := c.APITokenUseCase()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get api token use case for http server: %w", err)
			return
		}

		orderUseCase, err := c.OrderUseCase()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get order use case for http server: %w", err)
			return
		}

		metricsProvider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get metrics provider for http server: %w", err)
			return
		}

		server := http.NewServer(c.config, db, logger)
		server.SetupRouter(http.RouterDeps{
			Authorizer:       authorizer,
			UserRepository:   userRepo,
			IdentityResolver: authzHTTP.NewHeaderIdentityResolver(),
			APITokenHandler:  apitokenHTTP.NewAPITokenHandler(apiTokenUseCase, logger),
			OrderHandler:     orderHTTP.NewOrderHandler(orderUseCase, logger),
			MetricsProvider:  metricsProvider,
		})

		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
			return
		}
		if provider == nil {
			return
		}

		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}
