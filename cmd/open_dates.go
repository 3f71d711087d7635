package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/deskmate/internal/desk"
)

func newOpenDatesCmd() *cobra.Command {
	var (
		from         string
		days         int
		skipWeekends bool
	)

	cmd := &cobra.Command{
		Use:   "open-dates",
		Short: "Open dates for desk reservations",
		Long: `Add a free slot for every known desk on each date of a range.

Desks can only be reserved on dates that exist in the reservations file.
Slots that already exist, free or reserved, are left unchanged, so the
command is safe to run repeatedly (for example from a daily cron job).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if from != "" {
				parsed, err := time.Parse(desk.DateLayout, from)
				if err != nil {
					return fmt.Errorf("invalid --from date %q, expected YYYY-MM-DD", from)
				}
				start = parsed
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store := desk.NewStore(cfg.DeskInfoPath(), cfg.DeskReservationsPath())
			added, err := store.OpenDates(desk.OpenOptions{
				From:         start,
				Days:         days,
				SkipWeekends: skipWeekends,
			})
			if errors.Is(err, desk.ErrNoDesks) {
				return fmt.Errorf("%w: run 'deskmate seed-desks' or fill %s first", err, cfg.DeskInfoPath())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Opened %d desk slots starting %s.\n", added, start.Format(desk.DateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date to open, YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&days, "days", 14, "Number of calendar days to open")
	cmd.Flags().BoolVar(&skipWeekends, "skip-weekends", true, "Do not open Saturdays and Sundays")

	return cmd
}
