package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetdb/core/migrate"
	"github.com/kilianp07/fleetdb/infra/logger"
)

var migrateTarget string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the schema revision of the database",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending revisions, to head or to --revision",
	RunE:  migrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert revisions down to --revision, or everything",
	RunE:  migrateDown,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the revision chain and the current stamp",
	RunE:  migrateStatus,
}

func init() {
	migrateUpCmd.Flags().StringVar(&migrateTarget, "revision", "", "stop at this revision instead of head")
	migrateDownCmd.Flags().StringVar(&migrateTarget, "revision", "", "stop at this revision instead of the empty schema")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func migrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("migrate")
	_, runner, err := openRunner(cfg, log)
	if err != nil {
		return err
	}
	if migrateTarget != "" {
		return runner.UpgradeTo(cmd.Context(), migrateTarget)
	}
	return runner.UpgradeToHead(cmd.Context())
}

func migrateDown(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("migrate")
	_, runner, err := openRunner(cfg, log)
	if err != nil {
		return err
	}
	return runner.DowngradeTo(cmd.Context(), migrateTarget)
}

func migrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, runner, err := openRunner(cfg, logger.NopLogger{})
	if err != nil {
		return err
	}
	statuses, err := runner.Status(cmd.Context())
	if err != nil {
		return err
	}
	for _, s := range statuses {
		mark := " "
		if s.Applied {
			mark = "x"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s\n", mark, s.Revision.ID, s.Revision.Label)
	}
	cur, err := runner.Current(cmd.Context())
	if err != nil {
		return err
	}
	if cur.ID == migrate.Base {
		fmt.Fprintln(cmd.OutOrStdout(), "current: <base>")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "current: %s (%s)\n", cur.ID, cur.Label)
	}
	return nil
}
