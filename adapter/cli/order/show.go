package order

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [order-id]",
	Short: "Show one order in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetOrderHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		orderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid order id: %w", err)
		}

		dto, err := app.GetOrderHandler.Handle(cmd.Context(), queries.GetOrderQuery{OrderID: orderID})
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if dto == nil {
			return fmt.Errorf("order %s not found", orderID)
		}

		if showJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(dto)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", dto.Name, dto.Status)
		if dto.ClientName != "" {
			fmt.Fprintf(out, "  client: %s\n", dto.ClientName)
		}
		if dto.Designer != "" {
			fmt.Fprintf(out, "  designer: %s\n", dto.Designer)
		}
		if dto.Description != "" {
			fmt.Fprintf(out, "  description: %s\n", dto.Description)
		}
		fmt.Fprintln(out, "  items:")
		for _, item := range dto.Items {
			fmt.Fprintf(out, "    %s x%d\n", item.Garment, item.Quantity)
		}
		fmt.Fprintf(out, "  design: %.1fh  production: %.1fm  total: %s\n",
			dto.DesignHours, dto.ProductionMinutes, dto.TotalFormatted)
		fmt.Fprintf(out, "  estimated delivery: %s\n", dto.EstimatedDelivery.Format("Mon 2006-01-02 15:04"))
		if dto.ArchiveWeek != "" {
			fmt.Fprintf(out, "  archived: %s\n", dto.ArchiveWeek)
		}
		fmt.Fprintln(out, "  pipeline:")
		for _, stage := range dto.Stages {
			marker := " "
			switch stage.State {
			case "completed":
				marker = "x"
			case "in-progress":
				marker = ">"
			}
			fmt.Fprintf(out, "    [%s] %s\n", marker, stage.Stage)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
}
