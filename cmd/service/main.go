// Command service runs the user sync API: it imports users from GoREST into
// the configured store and serves them over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jsamuelsen/user-sync-service/internal/adapters/clients"
	"github.com/jsamuelsen/user-sync-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/user-sync-service/internal/adapters/flags"
	"github.com/jsamuelsen/user-sync-service/internal/adapters/http"
	"github.com/jsamuelsen/user-sync-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/user-sync-service/internal/adapters/repository/memory"
	"github.com/jsamuelsen/user-sync-service/internal/adapters/repository/postgres"
	"github.com/jsamuelsen/user-sync-service/internal/app"
	"github.com/jsamuelsen/user-sync-service/internal/platform/config"
	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
	"github.com/jsamuelsen/user-sync-service/internal/platform/telemetry"
	"github.com/jsamuelsen/user-sync-service/internal/ports"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "user-sync-service: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := tel.Shutdown(ctx); err != nil {
			logger.Error("flushing telemetry", slog.Any("error", err))
		}
	}()

	health := ports.NewHealthRegistry()

	repo, closeRepo, err := openRepository(ctx, cfg.Database, health, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	source, err := newGoREST(cfg, logger)
	if err != nil {
		return err
	}

	if err := health.Register(source); err != nil {
		return fmt.Errorf("registering %s health check: %w", source.Name(), err)
	}

	metrics, err := telemetry.NewSyncMetrics()
	if err != nil {
		return fmt.Errorf("creating sync metrics: %w", err)
	}

	users := app.NewUserService(app.UserServiceConfig{
		Repository: repo,
		Source:     source,
		Flags:      flags.NewStatic(cfg.Features),
		Metrics:    metrics,
		SourceName: cfg.Services.GoREST.Name,
		Logger:     logger,
	})

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.NewRouterConfig(
		logger,
		&cfg.App,
		handlers.NewHealthHandler(health, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		handlers.NewUserHandler(users),
	).WithServerTimeouts(&cfg.Server))

	serveErr := server.Start()

	select {
	case err, failed := <-serveErr:
		if failed {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, draining", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("draining http server: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

// loadConfig reads an optional .env, then the layered config for the
// APP_ENVIRONMENT profile (default "local"), and validates it.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading %s config: %w", profile, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	file := cfg.Log.File

	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    file.Enabled,
			Path:       file.Path,
			MaxSizeMB:  file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAgeDays: file.MaxAgeDays,
			Compress:   file.Compress,
		},
	})
}

// newGoREST builds the remote user source. GoREST calls are never retried:
// a failed page fails the import.
func newGoREST(cfg *config.Config, logger *slog.Logger) (*acl.GoRESTClient, error) {
	gorest := cfg.Services.GoREST

	retry := cfg.Client.Retry
	retry.MaxAttempts = 1

	client, err := clients.New(&clients.Config{
		BaseURL:     gorest.BaseURL,
		ServiceName: gorest.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Token:       gorest.Token,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", gorest.Name, err)
	}

	return acl.NewGoRESTClient(acl.GoRESTClientConfig{
		Client:      client,
		ServiceName: gorest.Name,
		PerPage:     gorest.PerPage,
		Logger:      logger,
	}), nil
}

// openRepository uses Postgres when a DSN is configured and memory
// otherwise. The returned func releases the pool.
func openRepository(
	ctx context.Context,
	cfg config.DatabaseConfig,
	registry ports.HealthRegistry,
	logger *slog.Logger,
) (ports.UserRepository, func(), error) {
	if cfg.DSN == "" {
		logger.Warn("no database DSN configured, users are kept in memory")
		return memory.NewUserRepository(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	if err := postgres.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}

	repo := postgres.NewUserRepository(pool)
	if err := registry.Register(repo); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("registering postgres health check: %w", err)
	}

	return repo, pool.Close, nil
}
