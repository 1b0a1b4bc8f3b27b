package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/chrissnell/paleoprofile/internal/log"
	"github.com/chrissnell/paleoprofile/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "paleoprofile",
		Short: "Generate synthetic paleoenvironmental depth profiles",
		Long: `Generate synthetic paleoenvironmental depth profiles.

Examples:
  paleoprofile generate --max-depth 100 --zones 4 --base Rock --env Lake --out profile.csv
  paleoprofile catalog --zone 1 --env Peatland
  paleoprofile serve --config config.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to a YAML file or SQLite database (config.yaml, config.db)")
	root.PersistentFlags().String("config-backend", "", "configuration backend: 'yaml' or 'sqlite'; inferred from the extension when empty")
	root.PersistentFlags().Bool("debug", false, "turn on debugging output")

	root.AddCommand(newGenerateCmd(), newCatalogCmd(), newServeCmd(), newConfigCmd(), newVersionCmd())
	return root
}

// loadConfig reads the persistent flags, loads the configuration and
// initializes logging from it.
func loadConfig(cmd *cobra.Command) (*config.ConfigData, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfgBackend, _ := cmd.Flags().GetString("config-backend")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(cfgFile, cfgBackend)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration. Did you pass the --config flag? Run with -h for help: %w", err)
	}
	if debug {
		cfg.Logging.Debug = true
	}

	if err := log.InitWithOptions(log.Options{
		Debug:      cfg.Logging.Debug,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
