package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetdb/core/scenario"
	"github.com/kilianp07/fleetdb/infra/db"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Copy scenarios within and between databases",
}

var scenarioCloneCmd = &cobra.Command{
	Use:   "clone <scenario-id>",
	Short: "Deep-copy a scenario within the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioClone,
}

var scenarioExportCmd = &cobra.Command{
	Use:   "export <scenario-id> <file>",
	Short: "Write a scenario to a compressed envelope file",
	Args:  cobra.ExactArgs(2),
	RunE:  runScenarioExport,
}

var scenarioImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Read a scenario from an envelope file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioImport,
}

func init() {
	scenarioCmd.AddCommand(scenarioCloneCmd, scenarioExportCmd, scenarioImportCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func runScenarioClone(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("scenario id: %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	newID, err := scenario.Clone(cmd.Context(), gdb, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cloned scenario %d to %d\n", id, newID)
	return nil
}

func runScenarioExport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("scenario id: %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := scenario.Export(cmd.Context(), gdb, id, f); err != nil {
		return err
	}
	return f.Sync()
}

func runScenarioImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	newID, err := scenario.Import(cmd.Context(), gdb, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported scenario %d\n", newID)
	return nil
}
