package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/commands"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [order-id]",
	Short: "Archive a completed order",
	Long: `File a completed order into the archive under the current ISO week.
Only completed orders can be archived.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ArchiveOrderHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		orderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid order id: %w", err)
		}

		err = app.ArchiveOrderHandler.Handle(cmd.Context(), commands.ArchiveOrderCommand{
			UserID:  app.CurrentUserID,
			OrderID: orderID,
		})
		if err != nil {
			return fmt.Errorf("failed to archive order: %w", err)
		}

		fmt.Printf("Order %s archived\n", shortID(orderID.String()))
		return nil
	},
}
