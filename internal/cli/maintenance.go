package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrikedb/shrike/internal/ui"
)

var reinitForce bool

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Reclaim unused space in the store file (VACUUM)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Compact(); err != nil {
			return err
		}
		fmt.Println(ui.Successf("compacted %s", s.Path()))
		return nil
	},
}

var reinitCmd = &cobra.Command{
	Use:   "reinit",
	Short: "Delete the store file and rebuild it from its bundled script",
	Long: `Closes the store, deletes its file (and -wal/-shm siblings), and
bootstraps it again from the bundled <name>.sql script or snapshot.

All data in the store is lost. Requires --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !reinitForce {
			return fmt.Errorf("reinit deletes all data in the store; re-run with --force")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ForceReinitialize(); err != nil {
			return err
		}
		fmt.Println(ui.Successf("reinitialized %s", s.Path()))
		return nil
	},
}

var swapCmd = &cobra.Command{
	Use:   "swap <file>",
	Short: "Replace the store file with another, keeping a .old backup",
	Long: `Closes the store, renames the current file to <store>.old, copies
the given file into place, and reopens. Useful for restoring a store from
a synced or downloaded copy.

Examples:
  shrike --store ledger swap /tmp/ledger-restore.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SwapStore(args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Successf("swapped in %s (backup at %s.old)", args[0], s.Path()))
		return nil
	},
}

func init() {
	reinitCmd.Flags().BoolVar(&reinitForce, "force", false, "Confirm destroying the current store contents")
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(reinitCmd)
	rootCmd.AddCommand(swapCmd)
}
