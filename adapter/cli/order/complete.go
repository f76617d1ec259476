package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/commands"
	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

var completeCmd = &cobra.Command{
	Use:   "complete [order-id] [stage]",
	Short: "Complete a pipeline stage",
	Long: `Finish one stage of an order. The delivery estimate is recomputed
from the remaining work.

Stages: design, printing, cutting, pressing, quality-control`,
	Aliases: []string{"done"},
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CompleteStageHandler == nil {
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

		ctx := cmd.Context()
		err = app.CompleteStageHandler.Handle(ctx, commands.CompleteStageCommand{
			UserID:  app.CurrentUserID,
			OrderID: orderID,
			Stage:   stage,
		})
		if err != nil {
			return fmt.Errorf("failed to complete stage: %w", err)
		}

		fmt.Printf("Stage %s completed for order %s\n", stage, shortID(orderID.String()))
		dto, err := app.GetOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: orderID})
		if err == nil && dto != nil {
			fmt.Printf("  status: %s\n", dto.Status)
			fmt.Printf("  estimated delivery: %s\n", dto.EstimatedDelivery.Format("Mon 2006-01-02 15:04"))
		}
		return nil
	},
}
