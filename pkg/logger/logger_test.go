package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"), "未知级别按info处理")
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Options{Level: "info", Format: "json"})

	l.Debug("hidden")
	l.Info("book imported", zap.String("book_id", "OL1M"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "只应输出一行JSON")
	assert.Equal(t, "book imported", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "OL1M", entry["book_id"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Options{Level: "debug"})

	l.Debug("cache miss", zap.String("key", "catalog:v0:books:all"))
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "cache miss")
	assert.Contains(t, buf.String(), "catalog:v0:books:all")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.log")

	l, closer, err := New(Options{Output: path, Format: "json"})
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestSetup_ReplacesGlobals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.log")
	l, closer, err := Setup(Options{Output: path, Format: "json"})
	require.NoError(t, err)
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	assert.Same(t, l, zap.L())
	zap.L().Info("from global")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"from global"`)
}

func TestWithTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Options{Format: "json"})

	assert.Same(t, l, WithTrace(context.Background(), l), "没有span时不附加字段")

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	WithTrace(ctx, l).Info("traced")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
}
