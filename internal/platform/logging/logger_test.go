package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(level, format string) *Config {
	return &Config{Level: level, Format: format, Service: "user-sync-service", Version: "1.2.3"}
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(testConfig("info", "json")))
}

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{format: "json", want: []string{`"msg":"sync started"`, `"service_name":"user-sync-service"`, `"service_version":"1.2.3"`}},
		{format: "text", want: []string{"msg=\"sync started\"", "service_name=user-sync-service"}},
		{format: "pretty", want: []string{"sync started"}},
		{format: "", want: []string{`"msg":"sync started"`}},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			var buf bytes.Buffer

			NewWithWriter(testConfig("debug", tt.format), &buf).Info("sync started")

			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(testConfig("warn", "json"), &buf)
	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer

	NewWithWriter(testConfig("trace", "json"), &buf).Log(context.Background(), LevelTrace, "saved user")

	assert.Contains(t, buf.String(), "saved user")
}

func TestNewWithWriter_PrettyRedacts(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(testConfig("info", "pretty"), &buf)
	logger.With(slog.String("token", "gorest-secret")).Info("fetching page", slog.String("password", "hunter2"))

	out := buf.String()
	assert.Contains(t, out, "fetching page")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "gorest-secret")
}

func TestNewWithWriter_RotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.log")

	cfg := testConfig("info", "text")
	cfg.File = FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 1}

	var buf bytes.Buffer
	NewWithWriter(cfg, &buf).Info("users imported", slog.Int("count", 15))

	assert.Contains(t, buf.String(), "users imported")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"users imported"`, "file output is always JSON")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	cases := []struct {
		in   slog.Level
		want log.Level
	}{
		{LevelTrace, log.DebugLevel},
		{slog.LevelDebug, log.DebugLevel},
		{slog.LevelInfo, log.InfoLevel},
		{slog.LevelWarn, log.WarnLevel},
		{slog.LevelError, log.ErrorLevel},
		{slog.LevelError + 4, log.ErrorLevel},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, slogToCharmLevel(tc.in), "level %v", tc.in)
	}
}
