package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrikedb/shrike/internal/config"
	"github.com/shrikedb/shrike/internal/ui"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default config file",
	Long: `Creates a commented default config.toml in the standard location
if one does not already exist, and prints its path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault()
		if err != nil {
			return err
		}
		fmt.Println(ui.Successf("config at %s", path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}
