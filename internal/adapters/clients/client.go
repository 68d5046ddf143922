package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/user-sync-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/user-sync-service/internal/platform/config"
	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/user-sync-service/internal/adapters/clients"

// Defaults used when the corresponding config value is unset.
const (
	defaultTimeout             = 30 * time.Second
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL prefixes every request path, e.g. "https://gorest.co.in/public/v2".
	BaseURL string

	// ServiceName labels spans, metrics and logs. Required.
	ServiceName string

	// Timeout bounds a single attempt.
	Timeout time.Duration

	// Retry controls how many attempts a request gets. MaxAttempts 1 disables retries.
	Retry config.RetryConfig

	// Circuit configures the breaker in front of the remote.
	Circuit config.CircuitBreakerConfig

	// Transport sizes the connection pool. Zero values use package defaults.
	Transport config.TransportConfig

	// Token, when set, is sent as a bearer token on every attempt.
	Token string

	// Logger is used when the request context carries no logger.
	Logger *slog.Logger
}

// Client is an HTTP client for one remote service. Each request gets a
// client span, duration and count metrics, request and correlation id
// headers, the breaker check and, if configured, retries with jittered
// exponential backoff.
type Client struct {
	http    *http.Client
	baseURL string
	name    string
	token   string
	retry   config.RetryConfig
	breaker *Breaker
	logger  *slog.Logger

	tracer   trace.Tracer
	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New creates a Client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "clients.Client"), slog.String("downstream", cfg.ServiceName))

	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of outbound HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Outbound HTTP requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	breaker := NewBreaker(cfg.Circuit)
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		name:     cfg.ServiceName,
		token:    cfg.Token,
		retry:    retry,
		breaker:  breaker,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		requests: requests,
	}, nil
}

func newTransport(tc config.TransportConfig) *http.Transport {
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	}

	if tc.MaxIdleConns > 0 {
		t.MaxIdleConns = tc.MaxIdleConns
	}
	if tc.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = tc.MaxIdleConnsPerHost
	}
	if tc.IdleConnTimeout > 0 {
		t.IdleConnTimeout = tc.IdleConnTimeout
	}

	return t
}

// ServiceName returns the configured remote name.
func (c *Client) ServiceName() string {
	return c.name
}

// CircuitState returns the breaker position.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// Get sends a GET for path with the encoded query. Any HTTP status below 500
// is returned to the caller, who owns the body. Transport errors and 5xx
// responses that survive every attempt come back wrapped in ErrRequestFailed.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.url(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return c.Do(ctx, req)
}

// Do sends req through the breaker, tracing and retry loop.
// Retries resend the same request, so it must have no body or set GetBody.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.name),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.breaker.Allow() {
		c.record(ctx, req.Method, 0, start, "circuit_open")
		logger.WarnContext(ctx, "request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	c.decorate(ctx, req)

	resp, err := c.attempt(ctx, req, logger)
	if err != nil {
		c.breaker.Failure()
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, req.Method, 0, start, "error")
		logger.ErrorContext(ctx, "request failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		return nil, err
	}

	c.breaker.Success()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(resp.StatusCode))
	}

	c.record(ctx, req.Method, resp.StatusCode, start, strconv.Itoa(resp.StatusCode/100)+"xx")
	logger.DebugContext(ctx, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// attempt runs up to retry.MaxAttempts tries. Only transport errors that are
// worth repeating and 5xx responses trigger another try.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for n := 0; n < c.retry.MaxAttempts; n++ {
		if n > 0 {
			wait := c.backoff(n)
			logger.DebugContext(ctx, "retrying request", slog.Int("attempt", n+1), slog.Duration("backoff", wait))

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrRequestFailed, ctx.Err())
			case <-time.After(wait):
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))
		switch {
		case err != nil:
			lastErr = err
			if !retryable(err) {
				return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
			}
		case resp.StatusCode >= http.StatusInternalServerError:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		default:
			return resp, nil
		}
	}

	return nil, fmt.Errorf("%w after %d attempt(s): %w", ErrRequestFailed, c.retry.MaxAttempts, lastErr)
}

// decorate adds id propagation, trace context and auth headers.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// backoff returns InitialInterval*Multiplier^(n-1), capped at MaxInterval,
// then spread by ±JitterFactor.
func (c *Client) backoff(n int) time.Duration {
	d := float64(c.retry.InitialInterval) * math.Pow(c.retry.Multiplier, float64(n-1))
	if limit := float64(c.retry.MaxInterval); limit > 0 && d > limit {
		d = limit
	}

	if j := c.retry.JitterFactor; j > 0 {
		d += d * j * (rand.Float64()*2 - 1) //nolint:gosec // jitter needs no crypto randomness
	}

	return time.Duration(d)
}

func (c *Client) record(ctx context.Context, method string, status int, start time.Time, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.name),
		attribute.String("result", result),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	c.duration.Record(ctx, time.Since(start).Seconds(), opt)
	c.requests.Add(ctx, 1, opt)
}

// retryable reports whether a transport error may succeed on another try.
// Cancellation and deadline expiry never do.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
