package commands

import (
	"context"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
	sharedApplication "github.com/felixgeelhaar/sublima/internal/shared/application"
	"github.com/google/uuid"
)

// UpdateWorkScheduleCommand replaces the shop's work calendar.
type UpdateWorkScheduleCommand struct {
	UserID   uuid.UUID
	Schedule domain.WorkSchedule
}

func (c UpdateWorkScheduleCommand) CommandName() string { return "production.update_work_schedule" }

// UpdateWorkScheduleHandler validates and stores a new work schedule.
// Validation happens here, at the configuration boundary, so the projector
// never sees a schedule it could loop on.
type UpdateWorkScheduleHandler struct {
	settings domain.SettingsRepository
	uow      sharedApplication.UnitOfWork
}

// NewUpdateWorkScheduleHandler creates a new UpdateWorkScheduleHandler.
func NewUpdateWorkScheduleHandler(settings domain.SettingsRepository, uow sharedApplication.UnitOfWork) *UpdateWorkScheduleHandler {
	return &UpdateWorkScheduleHandler{settings: settings, uow: uow}
}

// Handle executes the UpdateWorkScheduleCommand.
func (h *UpdateWorkScheduleHandler) Handle(ctx context.Context, cmd UpdateWorkScheduleCommand) error {
	if err := cmd.Schedule.Validate(); err != nil {
		return err
	}
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.settings.SaveWorkSchedule(txCtx, cmd.Schedule)
	})
}

// UpdateDurationsCommand sets the stage durations for one garment type,
// either at garment level or for a specific size.
type UpdateDurationsCommand struct {
	UserID    uuid.UUID
	Garment   domain.GarmentType
	Size      domain.Size // empty for the garment-level record
	Durations domain.StageDurations
}

func (c UpdateDurationsCommand) CommandName() string { return "production.update_durations" }

// UpdateDurationsHandler updates the duration table.
type UpdateDurationsHandler struct {
	settings domain.SettingsRepository
	uow      sharedApplication.UnitOfWork
}

// NewUpdateDurationsHandler creates a new UpdateDurationsHandler.
func NewUpdateDurationsHandler(settings domain.SettingsRepository, uow sharedApplication.UnitOfWork) *UpdateDurationsHandler {
	return &UpdateDurationsHandler{settings: settings, uow: uow}
}

// Handle executes the UpdateDurationsCommand.
func (h *UpdateDurationsHandler) Handle(ctx context.Context, cmd UpdateDurationsCommand) error {
	if _, err := domain.NewStageDurations(
		cmd.Durations.Printing,
		cmd.Durations.Cutting,
		cmd.Durations.Pressing,
		cmd.Durations.QualityControl,
		cmd.Durations.Contingency,
	); err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		table, err := h.settings.LoadDurationTable(txCtx)
		if err != nil {
			return err
		}
		if cmd.Size != "" {
			if err := table.SetSize(cmd.Garment, cmd.Size, cmd.Durations); err != nil {
				return err
			}
		} else {
			if err := table.SetGarment(cmd.Garment, cmd.Durations); err != nil {
				return err
			}
		}
		return h.settings.SaveDurationTable(txCtx, table)
	})
}
