// Package settings implements the settings command group.
package settings

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/queries"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

var showJSON bool

// Cmd is the settings command group
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage shop configuration",
	Long:  `Show and update the work schedule and the garment duration table.`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetSettingsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		dto, err := app.GetSettingsHandler.Handle(cmd.Context(), queries.GetSettingsQuery{})
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		if showJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(dto)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "work schedule: %02d:00-%02d:00, lunch %02d:00-%02d:00\n",
			dto.Schedule.StartHour, dto.Schedule.EndHour,
			dto.Schedule.LunchStart, dto.Schedule.LunchEnd)
		fmt.Fprint(out, "work days:")
		for _, d := range dto.Schedule.WorkDays {
			fmt.Fprintf(out, " %s", d.String()[:3])
		}
		fmt.Fprintln(out)

		garments := make([]string, 0, len(dto.Durations))
		for g := range dto.Durations {
			garments = append(garments, g.String())
		}
		sort.Strings(garments)

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "GARMENT\tPRINT\tCUT\tPRESS\tQC\tBUFFER\tPER UNIT")
		for _, g := range garments {
			d := dto.Durations[domain.GarmentType(g)]
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
				g, d.Printing, d.Cutting, d.Pressing, d.QualityControl, d.Contingency, d.PerUnit())
		}
		return w.Flush()
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(scheduleCmd)
	Cmd.AddCommand(durationsCmd)
}
