package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrikedb/shrike/internal/ui"
)

var emptyCmd = &cobra.Command{
	Use:   "empty <table>",
	Short: "Print a table's zero-valued template row",
	Long: `Introspects the table's schema and prints the empty template row:
integer-declared columns as 0, real-declared columns as 0.0, everything
else as an empty string.

Examples:
  shrike --store ledger empty customers`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		row, err := s.EmptyRow(args[0])
		if err != nil {
			return err
		}
		fmt.Print(ui.KeyValueList(nil, row))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(emptyCmd)
}
