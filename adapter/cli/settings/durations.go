package settings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/commands"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

var (
	durSize        string
	durPrinting    float64
	durCutting     float64
	durPressing    float64
	durQC          float64
	durContingency float64
)

var durationsCmd = &cobra.Command{
	Use:   "durations [garment]",
	Short: "Update per-unit stage durations for a garment",
	Long: `Set the per-unit minute cost of each production stage for one
garment type, optionally for a single size.

Examples:
  sublima settings durations polo --printing 8.9 --cutting 1 --pressing 2.5 --qc 1 --contingency 1.25
  sublima settings durations polo --size 12 --printing 7.5 --cutting 1 --pressing 2 --qc 1 --contingency 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateDurationsHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		garment, err := domain.ParseGarmentType(args[0])
		if err != nil {
			return err
		}
		durations, err := domain.NewStageDurations(durPrinting, durCutting, durPressing, durQC, durContingency)
		if err != nil {
			return err
		}

		err = app.UpdateDurationsHandler.Handle(cmd.Context(), commands.UpdateDurationsCommand{
			UserID:    app.CurrentUserID,
			Garment:   garment,
			Size:      domain.Size(durSize),
			Durations: durations,
		})
		if err != nil {
			return fmt.Errorf("failed to update durations: %w", err)
		}

		if durSize != "" {
			fmt.Printf("Durations updated for %s size %s\n", garment, durSize)
		} else {
			fmt.Printf("Durations updated for %s\n", garment)
		}
		return nil
	},
}

func init() {
	durationsCmd.Flags().StringVar(&durSize, "size", "", "size label for a size-specific override")
	durationsCmd.Flags().Float64Var(&durPrinting, "printing", 0, "printing minutes per unit")
	durationsCmd.Flags().Float64Var(&durCutting, "cutting", 0, "cutting minutes per unit")
	durationsCmd.Flags().Float64Var(&durPressing, "pressing", 0, "pressing minutes per unit")
	durationsCmd.Flags().Float64Var(&durQC, "qc", 0, "quality control minutes per unit")
	durationsCmd.Flags().Float64Var(&durContingency, "contingency", 0, "contingency buffer minutes per unit")
}
