package order

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
)

var boardJSON bool

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the production board",
	Long:  `Show every open order with its current stage and remaining work estimate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.BoardHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		board, err := app.BoardHandler.Handle(cmd.Context(), queries.ProductionBoardQuery{})
		if err != nil {
			return fmt.Errorf("failed to build board: %w", err)
		}

		if boardJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(board)
		}

		if len(board.Rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no open orders")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCLIENT\tSTATUS\tSTAGE\tREMAINING\tDELIVERY")
		for _, row := range board.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				shortID(row.OrderID.String()), row.Name, row.ClientName,
				row.Status, row.CurrentStage, row.RemainingFormatted,
				row.EstimatedDelivery.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	boardCmd.Flags().BoolVar(&boardJSON, "json", false, "output as JSON")
}
