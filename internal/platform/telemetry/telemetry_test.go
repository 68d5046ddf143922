package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// installMeter points the global meter provider at a manual reader for the
// duration of the test.
func installMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	return reader
}

func installTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	return recorder
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}

	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()

	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "want int64 sum, got %T", data)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.Empty(t, p.shutdowns)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProvider_ShutdownJoinsErrors(t *testing.T) {
	var calls int
	flushErr := errors.New("exporter unreachable")

	p := &Provider{shutdowns: []func(context.Context) error{
		func(ctx context.Context) error {
			calls++
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return flushErr
		},
		func(context.Context) error { calls++; return nil },
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Shutdown(ctx)

	require.ErrorIs(t, err, flushErr)
	assert.Equal(t, 2, calls, "a failing flush must not skip the rest")
}

func TestSyncMetrics(t *testing.T) {
	reader := installMeter(t)

	m, err := NewSyncMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordImported(ctx, "gorest", 15)
	m.RecordImported(ctx, "gorest", 0)
	m.RecordSkipped(ctx, "gorest", 2)
	m.RecordDeleted(ctx, 7)

	got := collect(t, reader)
	assert.Equal(t, int64(15), sumOf(t, got["users.imported.total"]))
	assert.Equal(t, int64(2), sumOf(t, got["users.import.skipped.total"]))
	assert.Equal(t, int64(7), sumOf(t, got["users.deleted.total"]))
}

func TestSyncMetrics_Nil(t *testing.T) {
	var m *SyncMetrics

	assert.NotPanics(t, func() {
		m.RecordImported(context.Background(), "gorest", 1)
		m.RecordSkipped(context.Background(), "gorest", 1)
		m.RecordDeleted(context.Background(), 1)
	})
}

func TestRequestMetrics(t *testing.T) {
	reader := installMeter(t)
	spans := installTracer(t)

	r := gin.New()
	r.Use(Tracing("user-sync-service"), RequestMetrics())
	r.GET("/user/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/7", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(HeaderTraceID), 32)

	live := httptest.NewRecorder()
	r.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody))

	assert.Empty(t, live.Header().Get(HeaderTraceID), "/-/ routes are not traced")
	require.Len(t, spans.Ended(), 1)

	got := collect(t, reader)

	hist, ok := got["http.server.request.duration"].(metricdata.Histogram[float64])
	require.True(t, ok)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}

	assert.Equal(t, uint64(2), count)
	assert.Equal(t, int64(0), sumOf(t, got["http.server.active_requests"]))
}
