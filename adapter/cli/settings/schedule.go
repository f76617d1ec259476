package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/sublima/adapter/cli"
	"github.com/felixgeelhaar/sublima/internal/production/application/commands"
	"github.com/felixgeelhaar/sublima/internal/production/domain"
)

var (
	schedStart      int
	schedEnd        int
	schedLunchStart int
	schedLunchEnd   int
	schedDays       string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Update the work schedule",
	Long: `Update the shop's working calendar. Delivery projections walk this
schedule, so an inconsistent one is rejected.

Examples:
  sublima settings schedule --start 9 --end 18 --lunch-start 13 --lunch-end 14
  sublima settings schedule --days mon,tue,wed,thu,fri`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateWorkScheduleHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		days, err := parseWorkDays(schedDays)
		if err != nil {
			return err
		}

		schedule := domain.WorkSchedule{
			StartHour:  schedStart,
			EndHour:    schedEnd,
			LunchStart: schedLunchStart,
			LunchEnd:   schedLunchEnd,
			WorkDays:   days,
		}

		err = app.UpdateWorkScheduleHandler.Handle(cmd.Context(), commands.UpdateWorkScheduleCommand{
			UserID:   app.CurrentUserID,
			Schedule: schedule,
		})
		if err != nil {
			return fmt.Errorf("failed to update schedule: %w", err)
		}

		fmt.Println("Work schedule updated")
		return nil
	},
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseWorkDays(spec string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, name := range strings.Split(spec, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q (use mon..sun)", name)
		}
		days = append(days, day)
	}
	return days, nil
}

func init() {
	scheduleCmd.Flags().IntVar(&schedStart, "start", 9, "opening hour (0-23)")
	scheduleCmd.Flags().IntVar(&schedEnd, "end", 18, "closing hour (1-24)")
	scheduleCmd.Flags().IntVar(&schedLunchStart, "lunch-start", 13, "lunch start hour")
	scheduleCmd.Flags().IntVar(&schedLunchEnd, "lunch-end", 14, "lunch end hour")
	scheduleCmd.Flags().StringVar(&schedDays, "days", "mon,tue,wed,thu,fri,sat", "comma-separated work days")
}
