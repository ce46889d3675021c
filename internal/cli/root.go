// Package cli implements the spoor command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoor-app/spoor/internal/config"
	"github.com/spoor-app/spoor/internal/db"
	"github.com/spoor-app/spoor/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	jsonOutput bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "spoor",
	Short: "Track long hunts on a node-graph canvas",
	Long: `spoor tracks long-running personal hunts: each hunt gets an
infinite canvas of connected note nodes plus a weekly log. Run
"spoor canvas" to open the interactive canvas, or "spoor serve" to
expose the REST API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoader()
		if cfgFile != "" {
			loader.SetConfigFile(cfgFile)
		}
		if logLevel != "" {
			loader.Set("logging.level", logLevel)
		}

		loaded, err := loader.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		return logging.Init(logging.Config{
			Level:        cfg.Logging.Level,
			Format:       cfg.Logging.Format,
			File:         cfg.Logging.File,
			EnableCaller: cfg.Logging.EnableCaller,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/spoor/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON output")
}

// Execute runs the CLI.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

// openDatabase opens the configured local database, creating it if
// needed.
func openDatabase(ctx context.Context) (*db.DB, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	database, err := db.Open(ctx, db.Options{
		Path:          cfg.DatabasePath(),
		BusyTimeoutMs: cfg.Database.BusyTimeoutMs,
		Logger:        logging.Component("db"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
