package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chrissnell/paleoprofile/internal/log"
	"github.com/chrissnell/paleoprofile/pkg/config"
)

// --- config ---

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the SQLite configuration database",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigConvertCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade a configuration database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitSQLite(cmd.Context(), sqlitePath, log.Named("config")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration database ready at %s\n", sqlitePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "config.db", "path to the SQLite database")
	return cmd
}

func newConfigConvertCmd() *cobra.Command {
	var (
		yamlPath   string
		sqlitePath string
		force      bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a YAML configuration into a SQLite database",
		Long: `Convert a YAML configuration into a SQLite database.

Examples:
  paleoprofile config convert --yaml config.yaml --sqlite config.db
  paleoprofile config convert --yaml config.yaml --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if dryRun {
				cfg, err := config.NewYAMLProvider(yamlPath).LoadConfig()
				if err != nil {
					return fmt.Errorf("error loading YAML configuration: %w", err)
				}
				if _, err := cfg.RangeOverrides(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Dry run mode - would convert the following configuration:")
				printConfigSummary(out, cfg)
				return nil
			}

			cfg, err := config.ConvertYAMLToSQLite(cmd.Context(), yamlPath, sqlitePath, force, log.Named("config"))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Converted %s to %s\n", yamlPath, sqlitePath)
			printConfigSummary(out, cfg)
			return nil
		},
	}

	cmd.Flags().StringVar(&yamlPath, "yaml", "config.yaml", "path to the YAML configuration file")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "config.db", "path to the SQLite database to create")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing SQLite database")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be converted without writing")
	return cmd
}

func printConfigSummary(w io.Writer, cfg *config.ConfigData) {
	fmt.Fprintf(w, "Server: %s:%d\n", cfg.Server.ListenAddr, cfg.Server.Port)
	fmt.Fprintf(w, "Generation: max %d depth points, batch size %d, concurrency %d\n",
		cfg.Generation.MaxDepthPoints, cfg.Generation.MaxBatchSize, cfg.Generation.BatchConcurrency)
	fmt.Fprintf(w, "Overrides: %d\n", len(cfg.Overrides))
	for _, o := range cfg.Overrides {
		params := make([]string, 0, len(o.Ranges))
		for p := range o.Ranges {
			params = append(params, p)
		}
		sort.Strings(params)
		fmt.Fprintf(w, "  - zone %d base=%q env=%q: %v\n", o.Zone, o.BaseType, o.EnvType, params)
	}
}
