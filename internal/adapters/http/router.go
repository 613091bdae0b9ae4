package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotes-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotes-api/internal/platform/config"
	"github.com/jsamuelsen/quotes-api/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds /api/v1 requests when no timeout is configured.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains the dependencies for the router.
type RouterConfig struct {
	// ServiceName names the otelgin server spans.
	ServiceName string

	// AuthConfig guards the mutating quote routes when Enabled.
	AuthConfig *config.AuthConfig

	HealthHandler *handlers.HealthHandler
	QuoteHandler  *handlers.QuoteHandler

	// Timeout is the /api/v1 request deadline. Zero uses DefaultRequestTimeout.
	Timeout time.Duration
}

// SetupRouter configures middleware and routes on engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing, then trace header and metrics
//  5. Logging (skips /-/ routes)
//  6. ErrorHandler, which renders errors returned by handlers
//
// Route groups:
//   - /-/ operational health checks and metrics, no auth or timeout
//   - /api/v1 quote routes with a request deadline
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(),
		middleware.ErrorHandler(),
	)

	engine.NoRoute(middleware.NoRoute())
	engine.NoMethod(middleware.NoMethod())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine.Group("/-"))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	apiV1 := engine.Group("/api/v1", middleware.Timeout(timeout))

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1, writeGuards(cfg.AuthConfig)...)
	}
}

// writeGuards returns the authorization chain for mutating routes, empty
// when auth is disabled.
func writeGuards(auth *config.AuthConfig) []gin.HandlerFunc {
	if auth == nil || !auth.Enabled {
		return nil
	}

	return []gin.HandlerFunc{
		middleware.RequireAuth(auth),
		middleware.RequireRole(auth, auth.WriteRole),
	}
}
