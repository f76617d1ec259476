package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetSettingsHandler_Handle(t *testing.T) {
	settings := new(MockSettingsRepository)

	table := domain.DefaultDurationTable()
	require.NoError(t, table.SetSize(domain.GarmentPolo, "XL", domain.StageDurations{Printing: 10}))

	settings.On("LoadWorkSchedule", mock.Anything).Return(domain.DefaultWorkSchedule(), nil)
	settings.On("LoadDurationTable", mock.Anything).Return(table, nil)

	handler := NewGetSettingsHandler(settings)
	dto, err := handler.Handle(context.Background(), GetSettingsQuery{})

	require.NoError(t, err)
	assert.Equal(t, 9, dto.Schedule.StartHour)
	assert.Len(t, dto.Durations, 5)
	assert.Equal(t, 8.9, dto.Durations[domain.GarmentPolo].Printing)
	require.Contains(t, dto.Sizes, domain.GarmentPolo)
	assert.Equal(t, 10.0, dto.Sizes[domain.GarmentPolo]["XL"].Printing)

	settings.AssertExpectations(t)
}
