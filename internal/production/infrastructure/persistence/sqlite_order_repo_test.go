package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeFormatting_RoundTrip(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2025, 2, 10, 10, 30, 15, 123456789, loc)

	got, err := parseTime(formatTime(in))
	require.NoError(t, err)
	assert.True(t, got.Equal(in))
	assert.Equal(t, time.UTC, got.Location())
}

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Now()
	v := formatTimePtr(&now)
	s, ok := v.(string)
	require.True(t, ok)

	got, err := parseTime(s)
	require.NoError(t, err)
	assert.True(t, got.Equal(now))
}

func TestParseTime_Invalid(t *testing.T) {
	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
