package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/commands"
	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

var (
	addClientName  string
	addDescription string
	addDesigner    string
	addDesignHours float64
	addItems       []string
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a new order",
	Long: `Create a new production order. Items are given as garment:quantity
pairs; the time budget and delivery estimate are computed from the
configured duration table and work schedule.

Examples:
  sublima order add "St. Mary uniforms" --client "St. Mary" -i polo:24 -i shorts:24
  sublima order add "Club kit" -i long-sleeve-polo:10 --design-hours 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateOrderHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		if len(addItems) == 0 {
			return fmt.Errorf("at least one --item is required")
		}

		items := make([]commands.ItemInput, 0, len(addItems))
		for _, spec := range addItems {
			item, err := parseItemSpec(spec)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		createCmd := commands.CreateOrderCommand{
			UserID:      app.CurrentUserID,
			Name:        args[0],
			ClientID:    uuid.New(),
			ClientName:  addClientName,
			Description: addDescription,
			Designer:    addDesigner,
			Items:       items,
			DesignHours: addDesignHours,
		}

		ctx := cmd.Context()
		orderID, err := app.CreateOrderHandler.Handle(ctx, createCmd)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		fmt.Printf("Order created: %s\n", orderID)
		dto, err := app.GetOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: orderID})
		if err == nil && dto != nil {
			fmt.Printf("  total time: %s\n", dto.TotalFormatted)
			fmt.Printf("  estimated delivery: %s\n", dto.EstimatedDelivery.Format("Mon 2006-01-02 15:04"))
		}
		return nil
	},
}

// parseItemSpec parses "garment:quantity", e.g. "polo:24".
func parseItemSpec(spec string) (commands.ItemInput, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return commands.ItemInput{}, fmt.Errorf("invalid item %q (use garment:quantity)", spec)
	}
	garment, err := domain.ParseGarmentType(parts[0])
	if err != nil {
		return commands.ItemInput{}, err
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil || qty < 1 {
		return commands.ItemInput{}, fmt.Errorf("invalid quantity in item %q", spec)
	}
	return commands.ItemInput{Garment: garment, Quantity: qty}, nil
}

func init() {
	addCmd.Flags().StringVarP(&addClientName, "client", "c", "", "client name")
	addCmd.Flags().StringVar(&addDescription, "description", "", "order description")
	addCmd.Flags().StringVar(&addDesigner, "designer", "", "assigned designer")
	addCmd.Flags().Float64Var(&addDesignHours, "design-hours", 1, "design time in hours")
	addCmd.Flags().StringArrayVarP(&addItems, "item", "i", nil, "order item as garment:quantity (repeatable)")
}
