package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateWorkScheduleHandler_Handle(t *testing.T) {
	settings := new(MockSettingsRepository)
	uow := new(MockUnitOfWork)

	schedule := domain.WorkSchedule{
		StartHour:  8,
		EndHour:    17,
		LunchStart: 12,
		LunchEnd:   13,
		WorkDays:   []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	}

	uow.On("Begin", mock.Anything).Return(context.Background(), nil)
	uow.On("Commit", mock.Anything).Return(nil)
	settings.On("SaveWorkSchedule", mock.Anything, schedule).Return(nil)

	handler := NewUpdateWorkScheduleHandler(settings, uow)
	err := handler.Handle(context.Background(), UpdateWorkScheduleCommand{
		UserID:   uuid.New(),
		Schedule: schedule,
	})

	require.NoError(t, err)
	settings.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateWorkScheduleHandler_Handle_Invalid(t *testing.T) {
	settings := new(MockSettingsRepository)
	uow := new(MockUnitOfWork)

	schedule := domain.DefaultWorkSchedule()
	schedule.LunchStart = 7

	handler := NewUpdateWorkScheduleHandler(settings, uow)
	err := handler.Handle(context.Background(), UpdateWorkScheduleCommand{
		UserID:   uuid.New(),
		Schedule: schedule,
	})

	// Rejected before any transaction is opened.
	assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
	settings.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateDurationsHandler_Handle_GarmentLevel(t *testing.T) {
	settings := new(MockSettingsRepository)
	uow := new(MockUnitOfWork)

	durations := domain.StageDurations{Printing: 9.5, Cutting: 1, Pressing: 2.5, QualityControl: 1, Contingency: 1.3}

	uow.On("Begin", mock.Anything).Return(context.Background(), nil)
	uow.On("Commit", mock.Anything).Return(nil)
	settings.On("LoadDurationTable", mock.Anything).Return(domain.DefaultDurationTable(), nil)
	settings.On("SaveDurationTable", mock.Anything, mock.AnythingOfType("*domain.DurationTable")).
		Run(func(args mock.Arguments) {
			table := args.Get(1).(*domain.DurationTable)
			d, ok := table.DurationFor(domain.GarmentPolo, "")
			require.True(t, ok)
			assert.Equal(t, 9.5, d.Printing)
		}).
		Return(nil)

	handler := NewUpdateDurationsHandler(settings, uow)
	err := handler.Handle(context.Background(), UpdateDurationsCommand{
		UserID:    uuid.New(),
		Garment:   domain.GarmentPolo,
		Durations: durations,
	})

	require.NoError(t, err)
	settings.AssertExpectations(t)
}

func TestUpdateDurationsHandler_Handle_SizeOverride(t *testing.T) {
	settings := new(MockSettingsRepository)
	uow := new(MockUnitOfWork)

	durations := domain.StageDurations{Printing: 10, Cutting: 1, Pressing: 3, QualityControl: 1, Contingency: 1.5}

	uow.On("Begin", mock.Anything).Return(context.Background(), nil)
	uow.On("Commit", mock.Anything).Return(nil)
	settings.On("LoadDurationTable", mock.Anything).Return(domain.DefaultDurationTable(), nil)
	settings.On("SaveDurationTable", mock.Anything, mock.AnythingOfType("*domain.DurationTable")).
		Run(func(args mock.Arguments) {
			table := args.Get(1).(*domain.DurationTable)
			d, ok := table.DurationFor(domain.GarmentPolo, "XL")
			require.True(t, ok)
			assert.Equal(t, 10.0, d.Printing)
			// Garment-level record untouched.
			d, _ = table.DurationFor(domain.GarmentPolo, "")
			assert.Equal(t, 8.9, d.Printing)
		}).
		Return(nil)

	handler := NewUpdateDurationsHandler(settings, uow)
	err := handler.Handle(context.Background(), UpdateDurationsCommand{
		UserID:    uuid.New(),
		Garment:   domain.GarmentPolo,
		Size:      "XL",
		Durations: durations,
	})

	require.NoError(t, err)
	settings.AssertExpectations(t)
}

func TestUpdateDurationsHandler_Handle_NegativeDurations(t *testing.T) {
	settings := new(MockSettingsRepository)
	uow := new(MockUnitOfWork)

	handler := NewUpdateDurationsHandler(settings, uow)
	err := handler.Handle(context.Background(), UpdateDurationsCommand{
		UserID:    uuid.New(),
		Garment:   domain.GarmentPolo,
		Durations: domain.StageDurations{Printing: -1},
	})

	assert.ErrorIs(t, err, domain.ErrNegativeDuration)
	settings.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateDurationsHandler_Handle_UnknownGarment(t *testing.T) {
	settings := new(MockSettingsRepository)
	uow := new(MockUnitOfWork)

	uow.On("Begin", mock.Anything).Return(context.Background(), nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	settings.On("LoadDurationTable", mock.Anything).Return(domain.DefaultDurationTable(), nil)

	handler := NewUpdateDurationsHandler(settings, uow)
	err := handler.Handle(context.Background(), UpdateDurationsCommand{
		UserID:    uuid.New(),
		Garment:   domain.GarmentType("cape"),
		Durations: domain.StageDurations{Printing: 1},
	})

	assert.ErrorIs(t, err, domain.ErrUnknownGarment)
}
