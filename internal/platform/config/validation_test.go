package config

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig mirrors what Load produces with no files or environment.
func validConfig(t *testing.T) *Config {
	t.Helper()

	cfg := &Config{
		App: AppConfig{Name: "user-sync-service", Version: "1.0.0", Environment: "test"},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    6 * time.Minute,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
			RequestTimeout:  30 * time.Second,
			ImportTimeout:   5 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     1,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenLimit: 1},
			Transport:      TransportConfig{MaxIdleConns: 100, MaxIdleConnsPerHost: 10, IdleConnTimeout: 90 * time.Second},
		},
		Database: DatabaseConfig{MaxConns: 10, MinConns: 1},
		Services: ServicesConfig{
			GoREST: GoRESTConfig{BaseURL: "https://gorest.co.in/public/v2", Name: "gorest", PerPage: 100},
		},
	}
	require.NoError(t, cfg.Validate())

	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{
			name:   "missing app name",
			mutate: func(c *Config) { c.App.Name = "" },
			want:   []string{"app.name is required"},
		},
		{
			name:   "unknown environment",
			mutate: func(c *Config) { c.App.Environment = "staging" },
			want:   []string{"app.environment must be one of: local dev qa prod test"},
		},
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			want:   []string{"server.port must be at most 65535"},
		},
		{
			name:   "sub-second read timeout",
			mutate: func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond },
			want:   []string{"server.readtimeout must be at least 1s"},
		},
		{
			name:   "import outlasts write timeout",
			mutate: func(c *Config) { c.Server.ImportTimeout = 10 * time.Minute },
			want:   []string{"server.importtimeout must not exceed server.writetimeout"},
		},
		{
			name:   "route timeouts are optional",
			mutate: func(c *Config) { c.Server.RequestTimeout, c.Server.ImportTimeout = 0, 0 },
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Log.Level = "verbose" },
			want:   []string{"log.level must be one of"},
		},
		{
			name:   "trace log level",
			mutate: func(c *Config) { c.Log.Level = "trace" },
		},
		{
			name:   "log file without path",
			mutate: func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} },
			want:   []string{"log.file.path is required when Enabled true"},
		},
		{
			name:   "log file too large",
			mutate: func(c *Config) { c.Log.File = LogFileConfig{Enabled: true, Path: "x.log", MaxSizeMB: 4096} },
			want:   []string{"log.file.maxsizemb must be at most 1024"},
		},
		{
			name:   "telemetry without endpoint",
			mutate: func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "svc", SamplingRate: 1} },
			want:   []string{"telemetry.endpoint is required"},
		},
		{
			name: "telemetry endpoint not a url",
			mutate: func(c *Config) {
				c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "svc", Endpoint: "collector", SamplingRate: 1}
			},
			want: []string{"telemetry.endpoint must be a valid URL"},
		},
		{
			name:   "sampling rate above one",
			mutate: func(c *Config) { c.Telemetry.SamplingRate = 1.5 },
			want:   []string{"telemetry.samplingrate must be at most 1"},
		},
		{
			name:   "min conns above max",
			mutate: func(c *Config) { c.Database.MinConns = 20 },
			want:   []string{"database.minconns must not exceed database.maxconns"},
		},
		{
			name:   "dsn is optional",
			mutate: func(c *Config) { c.Database.DSN = "" },
		},
		{
			name:   "gorest url invalid",
			mutate: func(c *Config) { c.Services.GoREST.BaseURL = "gorest.co.in" },
			want:   []string{"services.gorest.baseurl must be a valid URL"},
		},
		{
			name:   "gorest page too large",
			mutate: func(c *Config) { c.Services.GoREST.PerPage = 101 },
			want:   []string{"services.gorest.perpage must be at most 100"},
		},
		{
			name:   "too many attempts",
			mutate: func(c *Config) { c.Client.Retry.MaxAttempts = 11 },
			want:   []string{"client.retry.maxattempts must be at most 10"},
		},
		{
			name:   "max interval below initial",
			mutate: func(c *Config) { c.Client.Retry.InitialInterval = 10 * time.Second },
			want:   []string{"client.retry.maxinterval must not be below client.retry.initialinterval"},
		},
		{
			name:   "flat multiplier",
			mutate: func(c *Config) { c.Client.Retry.Multiplier = 1 },
			want:   []string{"client.retry.multiplier must be at least 1.1"},
		},
		{
			name:   "breaker without failures",
			mutate: func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 },
			want:   []string{"client.circuitbreaker.maxfailures is required"},
		},
		{
			name: "every violation is reported",
			mutate: func(c *Config) {
				c.App.Name = ""
				c.App.Version = ""
				c.Log.Format = "xml"
			},
			want: []string{"app.name is required", "app.version is required", "log.format must be one of"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.want) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "config validation failed:"))

			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestDescribe_UnknownTag(t *testing.T) {
	type sample struct {
		Email string `validate:"email"`
	}

	err := validate.Struct(sample{Email: "nope"})

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "email failed validation: email", describe(fieldErrs[0]))
}

func TestKeyPath(t *testing.T) {
	cases := map[string]string{
		"Config.Server.Port":              "server.port",
		"Config.Services.GoREST.PerPage":  "services.gorest.perpage",
		"Config.Client.Retry.MaxAttempts": "client.retry.maxattempts",
		"Port":                            "port",
	}

	for in, want := range cases {
		assert.Equal(t, want, keyPath(in), in)
	}

	assert.Equal(t, "database.maxconns", sibling("database.minconns", "MaxConns"))
	assert.Equal(t, "maxconns", sibling("minconns", "MaxConns"))
}
