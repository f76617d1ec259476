package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONIncludesServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:          LogLevelInfo,
		Format:         LogFormatJSON,
		Output:         &buf,
		ServiceName:    "sublima",
		ServiceVersion: "1.2.3",
	})

	logger.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "sublima", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:  LogLevelWarn,
		Format: LogFormatJSON,
		Output: &buf,
	})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestNewLogger_ContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:  LogLevelInfo,
		Format: LogFormatJSON,
		Output: &buf,
	})

	ctx := WithCorrelationID(context.Background(), "corr-123")
	ctx = WithUserID(ctx, "user-9")
	logger.InfoContext(ctx, "with context")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-123", entry[CorrelationIDKey])
	assert.Equal(t, "user-9", entry[UserIDKey])
}

func TestWithCorrelationID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")
	assert.NotEmpty(t, CorrelationIDFromContext(ctx))
}

func TestContextExtractors_Empty(t *testing.T) {
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
	assert.Empty(t, UserIDFromContext(context.Background()))
}
