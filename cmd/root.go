package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/config"
	"github.com/kilianp07/fleetdb/core/migrate"
	"github.com/kilianp07/fleetdb/infra/db"
	"github.com/kilianp07/fleetdb/infra/logger"
	"github.com/kilianp07/fleetdb/infra/metrics"
	"github.com/kilianp07/fleetdb/migrations"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fleetdb",
	Short: "Shared fleet simulation database tooling",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the config file and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

// openRunner connects to the configured database and builds a migration
// runner over the full revision chain.
func openRunner(cfg *config.Config, log logger.Logger) (*gorm.DB, *migrate.Runner, error) {
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	obs, err := metrics.NewPromObserver()
	if err != nil {
		return nil, nil, err
	}
	runner, err := migrate.NewRunner(gdb, migrations.All(),
		migrate.WithLogger(log), migrate.WithObserver(obs))
	if err != nil {
		return nil, nil, err
	}
	return gdb, runner, nil
}
