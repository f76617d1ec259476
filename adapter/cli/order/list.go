package order

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

var (
	listStatus string
	listWeek   string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	Long: `List orders. Without flags every open order is shown; --status
filters by pipeline status, --week lists the archive for one ISO week.

Examples:
  sublima order list
  sublima order list --status in-production
  sublima order list --week 2026-W35`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListOrdersHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		var (
			orders []queries.OrderDTO
			err    error
		)
		switch {
		case listWeek != "":
			orders, err = app.ListArchiveHandler.Handle(ctx, queries.ListArchiveQuery{WeekTag: listWeek})
		case listStatus != "":
			status, parseErr := domain.ParseStatus(listStatus)
			if parseErr != nil {
				return parseErr
			}
			orders, err = app.ListOrdersHandler.Handle(ctx, queries.ListOrdersQuery{Status: status})
		default:
			orders, err = app.ListOrdersHandler.Handle(ctx, queries.ListOrdersQuery{})
		}
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}

		if listJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(orders)
		}

		if len(orders) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no orders")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCLIENT\tSTATUS\tTOTAL\tDELIVERY")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				shortID(o.ID.String()), o.Name, o.ClientName, o.Status,
				o.TotalFormatted, o.EstimatedDelivery.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status (pending, in-design, in-production, in-pressing, completed, archived)")
	listCmd.Flags().StringVarP(&listWeek, "week", "w", "", "list the archive for an ISO week tag, e.g. 2026-W35")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}
