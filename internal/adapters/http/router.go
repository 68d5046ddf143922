package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/user-sync-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/user-sync-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/user-sync-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/user-sync-service/internal/platform/config"
	"github.com/jsamuelsen/user-sync-service/internal/platform/telemetry"
)

// Deadlines for /user routes when the server config leaves them unset.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultImportTimeout  = 5 * time.Minute
)

// importAllRoute walks every remote page, so it gets ImportTimeout.
const importAllRoute = "/user/uploadall"

// RouterConfig is what SetupRouter mounts. Nil handlers leave their routes
// out.
type RouterConfig struct {
	Logger        *slog.Logger
	AppConfig     *config.AppConfig
	HealthHandler *handlers.HealthHandler
	UserHandler   *handlers.UserHandler

	// Timeout bounds every /user route except the bulk import, which uses
	// ImportTimeout. Zero disables the deadline.
	Timeout       time.Duration
	ImportTimeout time.Duration
}

// NewRouterConfig uses the default deadlines.
func NewRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	health *handlers.HealthHandler,
	users *handlers.UserHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: health,
		UserHandler:   users,
		Timeout:       DefaultRequestTimeout,
		ImportTimeout: DefaultImportTimeout,
	}
}

// WithServerTimeouts takes the request and import deadlines from srv where
// they are set.
func (rc RouterConfig) WithServerTimeouts(srv *config.ServerConfig) RouterConfig {
	if srv == nil {
		return rc
	}

	if srv.RequestTimeout > 0 {
		rc.Timeout = srv.RequestTimeout
	}

	if srv.ImportTimeout > 0 {
		rc.ImportTimeout = srv.ImportTimeout
	}

	return rc
}

// SetupRouter installs the middleware chain and routes on engine. Order
// matters: recovery wraps everything, the ids exist before the span and the
// request log, and deadlines apply to /user routes only so probes never
// time out.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	serviceName := "user-sync-service"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Tracing(serviceName),
		telemetry.RequestMetrics(),
		middleware.Logging(cfg.Logger),
	)

	engine.NoRoute(func(c *gin.Context) {
		dto.RespondClientFault(c, http.StatusNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.Mount(engine)
	}

	if cfg.UserHandler != nil {
		users := engine.Group("", middleware.RouteTimeout(cfg.Timeout, map[string]time.Duration{
			importAllRoute: cfg.ImportTimeout,
		}))
		cfg.UserHandler.RegisterRoutes(users)
	}
}
