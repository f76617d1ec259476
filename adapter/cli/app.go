package cli

import (
	"github.com/google/uuid"

	"github.com/felixgeelhaar/sublima/internal/production/application/commands"
	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	// Command handlers
	CreateOrderHandler        *commands.CreateOrderHandler
	StartStageHandler         *commands.StartStageHandler
	CompleteStageHandler      *commands.CompleteStageHandler
	ArchiveOrderHandler       *commands.ArchiveOrderHandler
	UpdateWorkScheduleHandler *commands.UpdateWorkScheduleHandler
	UpdateDurationsHandler    *commands.UpdateDurationsHandler

	// Query handlers
	GetOrderHandler    *queries.GetOrderHandler
	ListOrdersHandler  *queries.ListOrdersHandler
	ListArchiveHandler *queries.ListArchiveHandler
	BoardHandler       *queries.ProductionBoardHandler
	GetSettingsHandler *queries.GetSettingsHandler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
