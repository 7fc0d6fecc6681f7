// Package http provides the API server: routing, authentication wiring, and
// operational endpoints.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apitokenHTTP "github.com/orderloop/orderloop/internal/apitoken/http"
	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	authzHTTP "github.com/orderloop/orderloop/internal/authz/http"
	authzUseCase "github.com/orderloop/orderloop/internal/authz/usecase"
	"github.com/orderloop/orderloop/internal/config"
	"github.com/orderloop/orderloop/internal/metrics"
	"github.com/orderloop/orderloop/internal/modules"
	orderHTTP "github.com/orderloop/orderloop/internal/order/http"
)

// Server is the API HTTP server.
type Server struct {
	config *config.Config
	db     *sql.DB
	logger *slog.Logger
	router *gin.Engine
	server *http.Server
}

// NewServer creates a new API server. Call SetupRouter before Start.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
) *Server {
	return &Server{
		config: cfg,
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDeps bundles the collaborators the route table needs.
type RouterDeps struct {
	Authorizer       authzUseCase.AuthorizerUseCase
	UserRepository   authzUseCase.UserRepository
	IdentityResolver authzHTTP.IdentityResolver
	APITokenHandler  *apitokenHTTP.APITokenHandler
	OrderHandler     *orderHTTP.OrderHandler
	MetricsProvider  *metrics.Provider
}

// SetupRouter builds the route table.
//
// The token management endpoints authenticate with the session identity
// (callers may not hold an API token yet); everything else authenticates with
// the Bearer API token. Prepare and create require the Order add permission
// up front; track and cancel resolve their ownership scope per record inside
// the use case, so the routes only require authentication.
func (s *Server) SetupRouter(deps RouterDeps) {
	gin.SetMode(s.config.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(s.config.CORSEnabled, s.config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.config.MetricsEnabled && deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			deps.MetricsProvider.MeterProvider(),
			s.config.MetricsNamespace,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	tokens := router.Group("/v1/tokens")
	if s.config.RateLimitTokenEnabled {
		tokens.Use(apitokenHTTP.RateLimitMiddleware(
			s.config.RateLimitTokenRequestsPerSec,
			s.config.RateLimitTokenBurst,
			s.logger,
		))
	}
	tokens.Use(authzHTTP.SessionMiddleware(deps.IdentityResolver, deps.UserRepository, s.logger))
	tokens.Use(authzHTTP.RequirePermissionKey(deps.Authorizer, modules.PermissionGenerateOwnAPIToken, s.logger))
	tokens.POST("", deps.APITokenHandler.IssueAPITokenHandler)
	tokens.GET("", deps.APITokenHandler.GetAPITokenHandler)
	tokens.DELETE("", deps.APITokenHandler.RevokeAPITokenHandler)

	orders := router.Group("/v1/order")
	orders.Use(authzHTTP.AuthenticationMiddleware(deps.Authorizer, s.logger))
	requireAdd := authzHTTP.RequirePermission(deps.Authorizer, authzDomain.KindAdd, "Order", false, s.logger)
	orders.POST("/prepare", requireAdd, deps.OrderHandler.PrepareOrderHandler)
	orders.POST("", requireAdd, deps.OrderHandler.CreateOrderHandler)
	orders.POST("/track", deps.OrderHandler.TrackOrderHandler)
	orders.POST("/cancel", deps.OrderHandler.CancelOrderHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness, including database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the API server. Blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
