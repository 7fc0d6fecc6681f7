// Package app provides the dependency injection container assembling the
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	apitokenService "github.com/orderloop/orderloop/internal/apitoken/service"
	apitokenUseCase "github.com/orderloop/orderloop/internal/apitoken/usecase"
	authzUseCase "github.com/orderloop/orderloop/internal/authz/usecase"
	"github.com/orderloop/orderloop/internal/config"
	"github.com/orderloop/orderloop/internal/database"
	"github.com/orderloop/orderloop/internal/http"
	"github.com/orderloop/orderloop/internal/metrics"
	"github.com/orderloop/orderloop/internal/modules"
	orderService "github.com/orderloop/orderloop/internal/order/service"
	orderUseCase "github.com/orderloop/orderloop/internal/order/usecase"
	userUseCase "github.com/orderloop/orderloop/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	tokenService    apitokenService.TokenService
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	permissionRepo authzUseCase.PermissionRepository
	roleRepo       authzUseCase.RoleRepository
	grantRepo      authzUseCase.GrantRepository
	userRepo       authzUseCase.UserRepository
	apiTokenRepo   apitokenUseCase.APITokenRepository
	orderRepo      orderUseCase.OrderRepository
	orderTokenRepo orderUseCase.OrderTokenRepository
	productRepo    orderUseCase.ProductRepository

	// Services and use cases
	pricer           orderService.Pricer
	registryUseCase  authzUseCase.RegistryUseCase
	authorizer       authzUseCase.AuthorizerUseCase
	apiTokenUseCase  apitokenUseCase.APITokenUseCase
	orderTokenBroker orderUseCase.OrderTokenBroker
	orderUseCase     orderUseCase.OrderUseCase
	userUseCase      userUseCase.UserUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	txManagerInit        sync.Once
	tokenServiceInit     sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	permissionRepoInit   sync.Once
	roleRepoInit         sync.Once
	grantRepoInit        sync.Once
	userRepoInit         sync.Once
	apiTokenRepoInit     sync.Once
	orderRepoInit        sync.Once
	orderTokenRepoInit   sync.Once
	productRepoInit      sync.Once
	pricerInit           sync.Once
	registryUseCaseInit  sync.Once
	authorizerInit       sync.Once
	apiTokenUseCaseInit  sync.Once
	orderTokenBrokerInit sync.Once
	orderUseCaseInit     sync.Once
	userUseCaseInit      sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger, created on first access from the log
// level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// TokenService returns the token generation and hashing service.
func (c *Container) TokenService() apitokenService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = apitokenService.NewTokenService()
	})
	return c.tokenService
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. Falls back to a
// no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// RegisterModules installs every module configuration into the permission
// registry. Must complete before the server accepts requests.
func (c *Container) RegisterModules(ctx context.Context) error {
	registry, err := c.RegistryUseCase()
	if err != nil {
		return err
	}
	return registry.RegisterModuleConfigs(ctx, modules.All())
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured JSON logger based on the configured level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
