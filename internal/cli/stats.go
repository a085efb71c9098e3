package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrikedb/shrike/internal/store"
	"github.com/shrikedb/shrike/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Long: `Displays the store path, how it was bootstrapped, and per-table
row counts.

Examples:
  shrike --store ledger stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Println(ui.Header(fmt.Sprintf("Store %s", s.Name())))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Path:     "), ui.Accent.Render(s.Path()))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Bootstrap:"), string(s.Bootstrap().Source))
		if n := len(s.Bootstrap().Failed); n > 0 {
			fmt.Printf("%s  %s\n", ui.Muted.Render("Failures: "), ui.Errorf("%d statements", n))
		}

		tables, err := listTables(s)
		if err != nil {
			return err
		}
		fmt.Println()
		for _, table := range tables {
			var count int64
			if err := s.DB().QueryRow(
				fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
				return fmt.Errorf("count %s: %w", table, err)
			}
			fmt.Printf("  %s %s\n", ui.Accent.Render(table), ui.Count(int(count), "row", "rows"))
		}

		return nil
	},
}

func listTables(s *store.Store) ([]string, error) {
	rows, err := s.DB().Query(
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
