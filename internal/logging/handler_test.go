package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	now := time.Now()
	logger.Info("restore finished", "files", 12)

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "restore finished")
	assert.Contains(t, out, "files=12")
	assert.Contains(t, out, now.Format(time.Kitchen))
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewHandler(&buf, nil))
	logger := base.With("snapshot", "s1").WithGroup("copy")

	logger.Info("file copied", "path", "a.txt")

	out := buf.String()
	assert.Contains(t, out, "snapshot=s1")
	assert.Contains(t, out, "copy.path=a.txt")

	// siblings must not see each other's attributes
	buf.Reset()
	base.Info("plain")
	assert.NotContains(t, buf.String(), "snapshot=")
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	ctx := t.Context()
	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.True(t, h.Enabled(ctx, slog.LevelError))
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "no time", 0)
	require.NoError(t, h.Handle(t.Context(), r))
	assert.Equal(t, "INFO  no time\n", buf.String())
}

func TestHandler_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})

	r := slog.NewRecord(time.Time{}, LevelTrace, "skip node_modules", 0)
	require.NoError(t, h.Handle(t.Context(), r))
	assert.Equal(t, "TRACE skip node_modules\n", buf.String())
}
