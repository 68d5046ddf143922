package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// HeaderTraceID echoes the server span's trace ID back to the caller.
const HeaderTraceID = "X-Trace-ID"

// Tracing starts a server span per request. Probe and metrics scrapes under
// /-/ are not traced.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, "/-/")
	}))
}

type httpInstruments struct {
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time spent serving user API requests"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("User API requests currently being served"))
	if err != nil {
		return nil, err
	}

	return &httpInstruments{duration: duration, inFlight: inFlight}, nil
}

// RequestMetrics records request duration and in-flight count per route and
// sets the X-Trace-ID header. Mount it after Tracing so the span exists.
func RequestMetrics() gin.HandlerFunc {
	inst, err := newHTTPInstruments(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		if inst == nil {
			c.Next()
			return
		}

		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.request.method", c.Request.Method)

		inst.inFlight.Add(ctx, 1, metric.WithAttributes(route, method))
		start := time.Now()

		c.Next()

		inst.inFlight.Add(ctx, -1, metric.WithAttributes(route, method))
		inst.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			route, method, attribute.Int("http.response.status_code", c.Writer.Status())))
	}
}
