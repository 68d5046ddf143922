package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetrics counts user records moved between the remote API and the store.
// A nil *SyncMetrics is valid and records nothing.
type SyncMetrics struct {
	imported metric.Int64Counter
	skipped  metric.Int64Counter
	deleted  metric.Int64Counter
}

// NewSyncMetrics creates the user sync counters on the global meter provider.
func NewSyncMetrics() (*SyncMetrics, error) {
	meter := otel.Meter(instrumentationName)

	imported, err := meter.Int64Counter(
		"users.imported.total",
		metric.WithDescription("Users fetched from the remote API and saved"),
	)
	if err != nil {
		return nil, err
	}

	skipped, err := meter.Int64Counter(
		"users.import.skipped.total",
		metric.WithDescription("Remote users rejected by validation during import"),
	)
	if err != nil {
		return nil, err
	}

	deleted, err := meter.Int64Counter(
		"users.deleted.total",
		metric.WithDescription("Users removed from the store"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{imported: imported, skipped: skipped, deleted: deleted}, nil
}

// RecordImported adds n saved users for the given source.
func (m *SyncMetrics) RecordImported(ctx context.Context, source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.imported.Add(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
}

// RecordSkipped adds n users that failed validation for the given source.
func (m *SyncMetrics) RecordSkipped(ctx context.Context, source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.skipped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
}

// RecordDeleted adds n deleted users.
func (m *SyncMetrics) RecordDeleted(ctx context.Context, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.deleted.Add(ctx, n)
}
