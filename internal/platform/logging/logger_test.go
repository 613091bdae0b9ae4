package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastEntry decodes the final JSON line written to buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))

	return entry
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(&Config{Level: "info", Format: "json"}))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "debug", Format: "json", Service: "quotes-api", Version: "1.2.3"}, &buf)

	logger.Debug("quote stored", slog.String("quote_id", "q-1"))

	entry := lastEntry(t, &buf)
	assert.Equal(t, "quote stored", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "q-1", entry["quote_id"])
	assert.Equal(t, "quotes-api", entry["service_name"])
	assert.Equal(t, "1.2.3", entry["service_version"])
}

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format   string
		contains []string
	}{
		{"text", []string{"level=INFO", `msg="quote listed"`, "service_name=quotes-api"}},
		{"TEXT", []string{"level=INFO"}},
		{"pretty", []string{"quote listed", "quotes-api"}},
		{"", []string{`"msg":"quote listed"`}},
		{"yaml", []string{`"msg":"quote listed"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			NewWithWriter(&Config{Level: "info", Format: tt.format, Service: "quotes-api"}, &buf).Info("quote listed")

			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	tests := []struct {
		level string
		emit  slog.Level
		want  bool
	}{
		{"trace", LevelTrace, true},
		{"debug", LevelTrace, false},
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelDebug, false},
		{"warn", slog.LevelInfo, false},
		{"error", slog.LevelWarn, false},
		{"error", slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.emit.String(), func(t *testing.T) {
			var buf bytes.Buffer
			NewWithWriter(&Config{Level: tt.level, Format: "json"}, &buf).Log(context.Background(), tt.emit, "record loaded")

			assert.Equal(t, tt.want, buf.Len() > 0)
		})
	}
}

func TestNewWithWriter_RotatingFile(t *testing.T) {
	for _, format := range []string{"json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			logFile := filepath.Join(t.TempDir(), "quotes.log")

			var buf bytes.Buffer
			logger := NewWithWriter(&Config{
				Level:   "info",
				Format:  format,
				Service: "quotes-api",
				File:    FileConfig{Enabled: true, Path: logFile, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 7},
			}, &buf)

			logger.Info("quote created", slog.String("quote_id", "q-1"), slog.String("token", "hunter2"))

			assert.Contains(t, buf.String(), "quote created")

			content, err := os.ReadFile(logFile)
			require.NoError(t, err)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
			assert.Equal(t, "quote created", entry["msg"])
			assert.Equal(t, "q-1", entry["quote_id"])
			assert.NotContains(t, string(content), "hunter2")
		})
	}
}

func TestNewWithWriter_FileWithoutPath(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Format: "json", File: FileConfig{Enabled: true}}, &buf)

	_, fanned := logger.Handler().(*MultiHandler)
	assert.False(t, fanned)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, parseLevel(input), "parseLevel(%q)", input)
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := map[slog.Level]log.Level{
		slog.Level(-12):    log.DebugLevel,
		LevelTrace:         log.DebugLevel,
		slog.LevelDebug:    log.DebugLevel,
		slog.LevelInfo:     log.InfoLevel,
		slog.LevelInfo + 2: log.InfoLevel,
		slog.LevelWarn:     log.WarnLevel,
		slog.LevelError:    log.ErrorLevel,
		slog.Level(12):     log.ErrorLevel,
	}

	for input, want := range tests {
		assert.Equal(t, want, slogToCharmLevel(input), "slogToCharmLevel(%v)", input)
	}
}
