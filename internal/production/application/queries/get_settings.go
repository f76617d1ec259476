package queries

import (
	"context"

	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

// SettingsDTO is the transfer shape of the shop configuration.
type SettingsDTO struct {
	Schedule  domain.WorkSchedule
	Durations map[domain.GarmentType]domain.StageDurations
	Sizes     map[domain.GarmentType]map[domain.Size]domain.StageDurations
}

// GetSettingsQuery requests the current work schedule and duration table.
type GetSettingsQuery struct{}

func (q GetSettingsQuery) QueryName() string { return "production.get_settings" }

// GetSettingsHandler handles the GetSettingsQuery.
type GetSettingsHandler struct {
	settings domain.SettingsRepository
}

// NewGetSettingsHandler creates a new GetSettingsHandler.
func NewGetSettingsHandler(settings domain.SettingsRepository) *GetSettingsHandler {
	return &GetSettingsHandler{settings: settings}
}

// Handle executes the GetSettingsQuery.
func (h *GetSettingsHandler) Handle(ctx context.Context, query GetSettingsQuery) (*SettingsDTO, error) {
	schedule, err := h.settings.LoadWorkSchedule(ctx)
	if err != nil {
		return nil, err
	}
	table, err := h.settings.LoadDurationTable(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsDTO{
		Schedule:  schedule,
		Durations: table.Garments(),
		Sizes:     table.SizeOverrides(),
	}, nil
}
