package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStageDurations(t *testing.T) {
	d, err := NewStageDurations(8.9, 1, 2.5, 1, 1.25)
	require.NoError(t, err)
	assert.InDelta(t, 14.65, d.PerUnit(), 1e-9)
	assert.False(t, d.IsZero())
}

func TestNewStageDurations_Negative(t *testing.T) {
	_, err := NewStageDurations(-1, 1, 1, 1, 0)
	assert.ErrorIs(t, err, ErrNegativeDuration)

	_, err = NewStageDurations(1, 1, 1, 1, -0.5)
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

func TestStageDurations_ForStage(t *testing.T) {
	d := StageDurations{Printing: 8, Cutting: 1, Pressing: 2.5, QualityControl: 1, Contingency: 1.25}

	assert.Equal(t, 8.0, d.ForStage(StagePrinting))
	assert.Equal(t, 1.0, d.ForStage(StageCutting))
	assert.Equal(t, 2.5, d.ForStage(StagePressing))
	assert.Equal(t, 1.0, d.ForStage(StageQualityControl))
	assert.Equal(t, 0.0, d.ForStage(StageDesign))
}

func TestDurationTable_DurationFor(t *testing.T) {
	table := NewDurationTable(map[GarmentType]StageDurations{
		GarmentPolo: {Printing: 8.9, Cutting: 1, Pressing: 2.5, QualityControl: 1, Contingency: 1.25},
	})
	require.NoError(t, table.SetSize(GarmentPolo, "XL", StageDurations{
		Printing: 10, Cutting: 1, Pressing: 3, QualityControl: 1, Contingency: 1.5,
	}))

	t.Run("size override wins", func(t *testing.T) {
		d, ok := table.DurationFor(GarmentPolo, "XL")
		require.True(t, ok)
		assert.Equal(t, 10.0, d.Printing)
	})

	t.Run("unknown size falls back to garment record", func(t *testing.T) {
		d, ok := table.DurationFor(GarmentPolo, "M")
		require.True(t, ok)
		assert.Equal(t, 8.9, d.Printing)
	})

	t.Run("empty size uses garment record", func(t *testing.T) {
		d, ok := table.DurationFor(GarmentPolo, "")
		require.True(t, ok)
		assert.Equal(t, 8.9, d.Printing)
	})

	t.Run("unconfigured garment degrades to zero", func(t *testing.T) {
		d, ok := table.DurationFor(GarmentShorts, "")
		assert.False(t, ok)
		assert.True(t, d.IsZero())
	})
}

func TestDurationTable_SetGarment_Unknown(t *testing.T) {
	table := NewDurationTable(nil)
	err := table.SetGarment(GarmentType("cape"), StageDurations{})
	assert.ErrorIs(t, err, ErrUnknownGarment)

	err = table.SetSize(GarmentType("cape"), "M", StageDurations{})
	assert.ErrorIs(t, err, ErrUnknownGarment)
}

func TestDurationTable_CopiesAreIndependent(t *testing.T) {
	table := DefaultDurationTable()
	garments := table.Garments()
	garments[GarmentPolo] = StageDurations{}

	d, ok := table.DurationFor(GarmentPolo, "")
	require.True(t, ok)
	assert.Equal(t, 8.9, d.Printing)
}

func TestDefaultDurationTable(t *testing.T) {
	table := DefaultDurationTable()

	tests := []struct {
		garment GarmentType
		perUnit float64
	}{
		{GarmentPolo, 14.65},
		{GarmentLongSleevePolo, 16.5},
		{GarmentShorts, 11.55},
		{GarmentSkirtShorts, 13.75},
		{GarmentAthleticShorts, 12.1},
	}

	for _, tc := range tests {
		t.Run(string(tc.garment), func(t *testing.T) {
			d, ok := table.DurationFor(tc.garment, "")
			require.True(t, ok)
			assert.InDelta(t, tc.perUnit, d.PerUnit(), 1e-9)
		})
	}
}
