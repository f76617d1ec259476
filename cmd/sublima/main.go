package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	cliOrder "github.com/felixgeelhaar/sublima/adapter/cli/order"
	cliSettings "github.com/felixgeelhaar/sublima/adapter/cli/settings"
	"github.com/felixgeelhaar/sublima/internal/app"
	"github.com/felixgeelhaar/sublima/pkg/config"
	"github.com/felixgeelhaar/sublima/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if err := container.StartOutboxProcessor(ctx); err != nil {
		logger.Warn("failed to start outbox processor", "error", err)
	}

	cliApp := &cli.App{
		CreateOrderHandler:        container.CreateOrderHandler,
		StartStageHandler:         container.StartStageHandler,
		CompleteStageHandler:      container.CompleteStageHandler,
		ArchiveOrderHandler:       container.ArchiveOrderHandler,
		UpdateWorkScheduleHandler: container.UpdateWorkScheduleHandler,
		UpdateDurationsHandler:    container.UpdateDurationsHandler,
		GetOrderHandler:           container.GetOrderHandler,
		ListOrdersHandler:         container.ListOrdersHandler,
		ListArchiveHandler:        container.ListArchiveHandler,
		BoardHandler:              container.BoardHandler,
		GetSettingsHandler:        container.GetSettingsHandler,
	}
	if userID, err := uuid.Parse(cfg.UserID); err == nil {
		cliApp.SetCurrentUserID(userID)
	}
	cli.SetApp(cliApp)

	cli.AddCommand(cliOrder.Cmd)
	cli.AddCommand(cliSettings.Cmd)

	cli.Execute()
}
