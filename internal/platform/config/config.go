// Package config loads the service configuration with koanf.
//
// Values are layered, later layers winning:
//
//	defaults → configs/base.yaml → configs/{profile}.yaml → APP_* environment
//
// Environment names are the config key upper-cased with dots and dashes
// turned into underscores, e.g. APP_SERVER_IMPORT_TIMEOUT for
// server.import_timeout and APP_SERVICES_GOREST_TOKEN for the GoREST token.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "APP_"

// ConfigDir holds base.yaml and the per-profile overlays.
var ConfigDir = "configs"

// Defaults for settings that tests and callers compare against.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts     = 1
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 1

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	DefaultDatabaseMaxConns = 10
	DefaultDatabaseMinConns = 1

	// DefaultGoRESTPerPage is GoREST's largest accepted page size.
	DefaultGoRESTPerPage = 100
)

// Config is the root configuration.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Database  DatabaseConfig  `koanf:"database"`
	Services  ServicesConfig  `koanf:"services"  validate:"required"`
	// Features holds flag values read by flags.NewStatic.
	Features map[string]any `koanf:"features"`
}

type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig sizes the HTTP listener. WriteTimeout must outlast
// ImportTimeout or a slow bulk import is cut off mid-response.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"omitempty,min=1s"`
	ImportTimeout   time.Duration `koanf:"import_timeout"   validate:"omitempty,min=1s,ltefield=WriteTimeout"`
}

type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig enables a lumberjack-rotated JSON copy of the log.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig tunes the outbound HTTP client used for GoREST.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig bounds attempts per outbound request. One attempt means no
// retries, which is what the import paths expect.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms,gtefield=InitialInterval"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// DatabaseConfig configures the pgx pool. An empty DSN selects the
// in-memory user store.
type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxConns        int32         `koanf:"max_conns"          validate:"omitempty,min=1,max=1000"`
	MinConns        int32         `koanf:"min_conns"          validate:"omitempty,min=0,ltefield=MaxConns"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
}

type ServicesConfig struct {
	GoREST GoRESTConfig `koanf:"gorest" validate:"required"`
}

// GoRESTConfig points at the GoREST users API. Token is optional; reads
// are public.
type GoRESTConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
	PerPage int    `koanf:"per_page" validate:"required,min=1,max=100"`
	Token   string `koanf:"token"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "user-sync-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "6m",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,
		"server.request_timeout":  "30s",
		"server.import_timeout":   "5m",

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/user-sync.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "user-sync-service",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "30s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          100,
		"client.transport.max_idle_conns_per_host": 10,
		"client.transport.idle_conn_timeout":       "90s",

		"database.dsn":                "",
		"database.max_conns":          DefaultDatabaseMaxConns,
		"database.min_conns":          DefaultDatabaseMinConns,
		"database.max_conn_idle_time": "5m",
		"database.max_conn_lifetime":  "1h",

		"services.gorest.base_url": "https://gorest.co.in/public/v2",
		"services.gorest.name":     "gorest",
		"services.gorest.per_page": DefaultGoRESTPerPage,
		"services.gorest.token":    "",

		"features.validate-imports": true,
	}
}

// Load builds the configuration for profile. A missing base or profile
// file is skipped; a malformed one is an error.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")
	base := defaults()

	if err := k.Load(confmap.Provider(base, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{filepath.Join(ConfigDir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(ConfigDir, profile+".yaml"))
	}

	for _, path := range files {
		if err := loadOptionalFile(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}

// envKeyMapper turns APP_SERVER_IMPORT_TIMEOUT into server.import_timeout.
// Names matching a known key map to it exactly; anything else falls back
// to one level per underscore.
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[envName(key)] = key
	}

	return func(name string) string {
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, envPrefix)), "_", ".")
	}
}

// envName returns the environment variable that sets key.
func envName(key string) string {
	return envPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}
