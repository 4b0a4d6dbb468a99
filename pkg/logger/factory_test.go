package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pencraft/pencraft/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("app", "test")),
	)

	log.Info("hello", slog.String("k", "v"))

	record := logLine(t, &buf)
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "test", record["app"])
	assert.Equal(t, "v", record["k"])
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Positive(t, buf.Len())
}

func TestNew_InvalidFormatPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("yaml")))
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewFromConfig(
		logger.Config{Level: "debug", Format: logger.FormatJSON},
		logger.WithOutput(&buf),
	)

	log.Debug("visible")
	record := logLine(t, &buf)
	assert.Equal(t, "visible", record["msg"])
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			if v, ok := ctx.Value(ctxKey{}).(string); ok {
				return slog.String("trace", v), true
			}
			return slog.Attr{}, false
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "abc123")
	log.InfoContext(ctx, "traced")

	record := logLine(t, &buf)
	assert.Equal(t, "abc123", record["trace"])

	buf.Reset()
	log.Info("untraced")
	record = logLine(t, &buf)
	_, present := record["trace"]
	assert.False(t, present)
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))

	log.Info("event",
		logger.UserID("u-1"),
		logger.Component("auth"),
		logger.Event("login"),
	)

	record := logLine(t, &buf)
	assert.Equal(t, "u-1", record["user_id"])
	assert.Equal(t, "auth", record["component"])
	assert.Equal(t, "login", record["event"])
}
