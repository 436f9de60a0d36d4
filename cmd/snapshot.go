package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetdb/infra/logger"
	"github.com/kilianp07/fleetdb/snapshot"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <archive>",
	Short: "Write a pg_dump archive of the whole database",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Replace the database's contents with an archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	rootCmd.AddCommand(dumpCmd, restoreCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := snapshot.Dump(cmd.Context(), cfg.Database, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dumped to %s\n", args[0])
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("restore")
	return snapshot.Restore(cmd.Context(), cfg.Database, args[0], log)
}
