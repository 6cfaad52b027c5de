package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &m))
	return m
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()
	l, buf := newBufLogger(t)

	l.Debug(ctx, "d")
	assert.Equal(t, "DEBUG", lastLine(t, buf)["level"])
	l.Info(ctx, "i")
	assert.Equal(t, "INFO", lastLine(t, buf)["level"])
	l.Warn(ctx, "w")
	assert.Equal(t, "WARN", lastLine(t, buf)["level"])
	l.Error(ctx, "e")
	assert.Equal(t, "ERROR", lastLine(t, buf)["level"])
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	ctx := context.Background()
	l, buf := newBufLogger(t)

	child := l.With("module", "queue")
	child.Info(ctx, "hello", "n", 3)

	m := lastLine(t, buf)
	assert.Equal(t, "queue", m["module"])
	assert.Equal(t, float64(3), m["n"])
	assert.Equal(t, "hello", m["msg"])
}
