package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrikedb/shrike/internal/ui"
)

var (
	findByField string
	findEmpty   bool
)

var findCmd = &cobra.Command{
	Use:   "find <table> <id>",
	Short: "Look up a single row by id",
	Long: `Fetches one row from a table by its id column (or another field
with --by). A missing row prints nothing unless --empty is given, in which
case the table's zero-valued template row is printed instead.

Examples:
  shrike --store ledger find customers 42
  shrike --store ledger find customers jane@example.com --by email
  shrike --store ledger find customers 42 --empty`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, id := args[0], args[1]

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		field := findByField
		if field == "" {
			field = s.IDColumn()
		}

		var row map[string]any
		var found bool
		if findEmpty {
			row, found, err = s.FindOrEmpty(table, field, id)
		} else {
			row, err = s.FindBy(table, field, id)
			found = len(row) > 0
		}
		if err != nil {
			return err
		}

		if !found && !findEmpty {
			fmt.Println(ui.Hint(fmt.Sprintf("no %s with %s = %s", table, field, id)))
			return nil
		}

		fmt.Print(ui.KeyValueList(nil, row))
		return nil
	},
}

func init() {
	findCmd.Flags().StringVar(&findByField, "by", "", "Field to match instead of the id column")
	findCmd.Flags().BoolVar(&findEmpty, "empty", false, "Print the empty template row when no row matches")
	rootCmd.AddCommand(findCmd)
}
