package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/m-mizutani/masq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	return errors.New("disk full")
}

func TestMultiHandler_Enabled(t *testing.T) {
	at := func(level slog.Level) slog.Handler {
		return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
	}

	multi := NewMultiHandler(at(slog.LevelWarn), at(slog.LevelError))

	assert.False(t, multi.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, multi.Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var verbose, quiet bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))

	logger.Debug("page fetched")
	logger.Warn("page slow")

	assert.Contains(t, verbose.String(), "page fetched")
	assert.Contains(t, verbose.String(), "page slow")
	assert.NotContains(t, quiet.String(), "page fetched")
	assert.Contains(t, quiet.String(), "page slow")
}

func TestMultiHandler_AttrsAndGroups(t *testing.T) {
	var a, b bytes.Buffer

	logger := slog.New(NewMultiHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil)))
	logger.With(slog.String("source", "gorest")).WithGroup("user").Info("saved", slog.Int64("id", 7))

	for _, buf := range []*bytes.Buffer{&a, &b} {
		entry := decodeOne(t, buf)
		assert.Equal(t, "gorest", entry["source"])
		assert.Equal(t, map[string]any{"id": float64(7)}, entry["user"])
	}
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	var buf bytes.Buffer

	ok := slog.NewJSONHandler(&buf, nil)
	multi := NewMultiHandler(failingHandler{ok}, ok)

	err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "saved", 0))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, buf.String(), "saved", "later handlers still run")
}

func TestNewReplaceAttr_Redaction(t *testing.T) {
	tests := []struct {
		key   string
		value string
		keep  bool
	}{
		{key: "token", value: "gorest-token"},
		{key: "authorization", value: "Bearer abc123xyz"},
		{key: "dsn", value: "postgres://app:pw@db:5432/users"},
		{key: "database_url", value: "host=db password=pw"},
		{key: "password", value: "hunter2"},
		{key: "secret_config", value: "sensitive-data"},
		{key: "header", value: "Bearer abc123xyz"},
		{key: "session_jwt", value: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig"},
		{key: "target", value: "postgresql://sync:pw@localhost/users"},
		{key: "email", value: "jane@example.com", keep: true},
		{key: "name", value: "Jane Doe", keep: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var buf bytes.Buffer

			slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr()})).
				Info("event", slog.String(tt.key, tt.value))

			assert.Contains(t, buf.String(), tt.key)
			if tt.keep {
				assert.Contains(t, buf.String(), tt.value)
			} else {
				assert.NotContains(t, buf.String(), tt.value)
			}
		})
	}
}

func TestNewReplaceAttr_ExtraOptions(t *testing.T) {
	var buf bytes.Buffer

	replace := NewReplaceAttr(masq.WithFieldName("phone"))
	slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: replace})).
		Info("event", slog.String("phone", "555-0100"))

	assert.NotContains(t, buf.String(), "555-0100")
}

func TestRedactHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer

	h := newRedactHandler(slog.NewJSONHandler(&buf, nil), NewReplaceAttr())
	logger := slog.New(h).With(slog.String("token", "abc")).WithGroup("db")

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))

	logger.Info("connect", slog.String("dsn", "postgres://u:p@h/db"))

	out := buf.String()
	assert.NotContains(t, out, `"abc"`)
	assert.NotContains(t, out, "u:p@")
	assert.Contains(t, out, `"db":{`)
}
