package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/commands"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

var startCmd = &cobra.Command{
	Use:   "start [order-id] [stage]",
	Short: "Start a pipeline stage",
	Long: `Move one stage of an order to in-progress.

Stages: design, printing, cutting, pressing, quality-control`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.StartStageHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		orderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid order id: %w", err)
		}
		stage, err := domain.ParseStage(args[1])
		if err != nil {
			return err
		}

		err = app.StartStageHandler.Handle(cmd.Context(), commands.StartStageCommand{
			UserID:  app.CurrentUserID,
			OrderID: orderID,
			Stage:   stage,
		})
		if err != nil {
			return fmt.Errorf("failed to start stage: %w", err)
		}

		fmt.Printf("Stage %s started for order %s\n", stage, shortID(orderID.String()))
		return nil
	},
}
