// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shrikedb/shrike/internal/config"
	"github.com/shrikedb/shrike/internal/store"
	"github.com/shrikedb/shrike/internal/ui"
)

var (
	// Global flags
	storeName    string
	configPath   string
	dataDirFlag  string
	assetDirFlag string
	runtimeFlag  string

	// Resolved values
	cfg      *config.Config
	storeCfg store.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shrike",
	Short: "Shrike - declarative records over an embedded SQLite store",
	Long: `Shrike turns declarative record schemas into generated SQL: flat
searches, multi-table joins, togglable quick filters, empty-row templates,
and foreign-key description lookups over an embedded SQLite store.

Named for the shrike, the butcher-bird that pins its catches in place
for later retrieval.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that work without a store.
		switch cmd.Name() {
		case "init-config", "completion", "help":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureAccent(cfg.UI.Accent)

		// Flags override the config file.
		if runtimeFlag != "" {
			cfg.Runtime = runtimeFlag
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		if assetDirFlag != "" {
			cfg.AssetDir = assetDirFlag
		}

		storeCfg, err = cfg.StoreConfig()
		if err != nil {
			return err
		}

		if storeName == "" {
			return fmt.Errorf(`no store specified

Either:
  1. Use --store <name>
  2. Run 'shrike init-config' and set asset_dir/data_dir in config.toml`)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&storeName, "store", "s", "", "Store name (resolves to <data_dir>/<name>.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding store files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&assetDirFlag, "asset-dir", "", "Directory holding bundled .sql scripts and snapshots (overrides config)")
	rootCmd.PersistentFlags().StringVar(&runtimeFlag, "runtime", "", "Storage backend: desktop, server, mobile, or memory")
}

// openStore opens the configured store, warning on stderr about any
// bootstrap statements that failed.
func openStore() (*store.Store, error) {
	s, err := store.Open(storeName, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %q: %w", storeName, err)
	}
	for _, se := range s.Bootstrap().Failed {
		fmt.Fprintln(os.Stderr, ui.Warningf("bootstrap statement failed: %v", se.Err))
	}
	return s, nil
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}
