package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/deskmate/internal/desk"
)

func newSeedDesksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-desks",
		Short: "Write default desk metadata",
		Long: `Write metadata for desks A0-A9 and B0-B9 when the desk info file is
missing or empty. An existing file is never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store := desk.NewStore(cfg.DeskInfoPath(), cfg.DeskReservationsPath())
			seeded, err := store.SeedDesks()
			if err != nil {
				return err
			}

			if seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d desks to %s.\n", len(desk.IDs), cfg.DeskInfoPath())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Desk metadata already present in %s, nothing to do.\n", cfg.DeskInfoPath())
			}
			return nil
		},
	}
}
