package services

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday under the default schedule.
var monday9 = time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)

func TestDeliveryProjector_Project(t *testing.T) {
	projector := NewDeliveryProjector()
	schedule := domain.DefaultWorkSchedule()

	tests := []struct {
		name    string
		minutes float64
		start   time.Time
		want    time.Time
	}{
		{
			name:    "fits inside the morning",
			minutes: 120,
			start:   monday9,
			want:    monday9.Add(2 * time.Hour),
		},
		{
			name:    "ten hours roll into the next day",
			minutes: 600,
			start:   monday9,
			want:    time.Date(2025, 2, 11, 11, 0, 0, 0, time.UTC),
		},
		{
			name:    "running past lunch pushes the finish",
			minutes: 90,
			start:   time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC),
			want:    time.Date(2025, 2, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name:    "consuming the whole lunch window still pushes",
			minutes: 120,
			start:   time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC),
			want:    time.Date(2025, 2, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			name:    "landing exactly at lunch start skips to its end",
			minutes: 240,
			start:   monday9,
			want:    time.Date(2025, 2, 10, 14, 0, 0, 0, time.UTC),
		},
		{
			name:    "full day capacity lands at closing",
			minutes: 480,
			start:   monday9,
			want:    time.Date(2025, 2, 10, 18, 0, 0, 0, time.UTC),
		},
		{
			name:    "saturday overflow skips sunday",
			minutes: 500,
			start:   time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC),
			want:    time.Date(2025, 2, 17, 9, 20, 0, 0, time.UTC),
		},
		{
			name:    "start on an off day clamps to monday opening",
			minutes: 60,
			start:   time.Date(2025, 2, 9, 11, 0, 0, 0, time.UTC),
			want:    time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "start before opening clamps forward",
			minutes: 60,
			start:   time.Date(2025, 2, 10, 6, 30, 0, 0, time.UTC),
			want:    time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "start after closing rolls to next morning",
			minutes: 60,
			start:   time.Date(2025, 2, 10, 19, 0, 0, 0, time.UTC),
			want:    time.Date(2025, 2, 11, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "start exactly at lunch jumps to its end",
			minutes: 30,
			start:   time.Date(2025, 2, 10, 13, 0, 0, 0, time.UTC),
			want:    time.Date(2025, 2, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name:    "zero budget returns the clamped start",
			minutes: 0,
			start:   monday9,
			want:    monday9,
		},
		{
			name:    "fractional minutes round to the nearest minute",
			minutes: 100.85,
			start:   monday9,
			want:    time.Date(2025, 2, 10, 10, 41, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := projector.Project(tc.minutes, schedule, tc.start)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeliveryProjector_Project_ZeroLengthLunch(t *testing.T) {
	projector := NewDeliveryProjector()
	schedule := domain.WorkSchedule{
		StartHour:  9,
		EndHour:    17,
		LunchStart: 13,
		LunchEnd:   13,
		WorkDays:   []time.Weekday{time.Monday},
	}

	got, err := projector.Project(300, schedule, monday9)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 10, 14, 0, 0, 0, time.UTC), got)
}

func TestDeliveryProjector_Project_MultiWeek(t *testing.T) {
	projector := NewDeliveryProjector()
	schedule := domain.DefaultWorkSchedule()

	// Six 480-minute days fill Monday through Saturday; one more minute
	// spills into the following Monday.
	got, err := projector.Project(6*480+1, schedule, monday9)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 17, 9, 1, 0, 0, time.UTC), got)
}

func TestDeliveryProjector_Project_InvalidSchedule(t *testing.T) {
	projector := NewDeliveryProjector()
	schedule := domain.DefaultWorkSchedule()
	schedule.WorkDays = nil

	_, err := projector.Project(60, schedule, monday9)
	assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
}
