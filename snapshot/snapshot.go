// Package snapshot moves whole databases around as pg_dump archives. It is
// PostgreSQL-only; the file backend can simply copy its database file.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/exec"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kilianp07/fleetdb/config"
	"github.com/kilianp07/fleetdb/core/logger"
	"github.com/kilianp07/fleetdb/core/migrate"
	"github.com/kilianp07/fleetdb/infra/db"
	"github.com/kilianp07/fleetdb/migrations"
)

// ErrPostgresOnly is returned when a snapshot operation is attempted on the
// file backend.
var ErrPostgresOnly = errors.New("snapshots require the postgres backend")

// Dump writes a custom-format pg_dump archive of the whole database to path.
// The archive carries the schema_version stamp along with the data, so a
// restore knows which migrations it still needs.
func Dump(ctx context.Context, cfg config.DatabaseConfig, path string) error {
	if !db.IsPostgresURL(cfg.URL) {
		return ErrPostgresOnly
	}
	cmd := exec.CommandContext(ctx, "pg_dump", "--format=custom", "--file", path, "--dbname", cfg.URL)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pg_dump: %w: %s", err, out)
	}
	return nil
}

// Restore replaces the database's contents with the archive at path: the
// public schema is dropped and recreated, the required extensions are
// restored, pg_restore loads the archive, and any migrations newer than the
// archive's stamped revision are applied.
func Restore(ctx context.Context, cfg config.DatabaseConfig, path string, log logger.Logger) error {
	if !db.IsPostgresURL(cfg.URL) {
		return ErrPostgresOnly
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if err := resetSchema(ctx, cfg.URL); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, "pg_restore", "--dbname", cfg.URL, "--no-owner", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pg_restore: %w: %s", err, out)
	}
	gdb, err := db.Open(cfg)
	if err != nil {
		return err
	}
	runner, err := migrate.NewRunner(gdb, migrations.All(), migrate.WithLogger(log))
	if err != nil {
		return err
	}
	cur, err := runner.Current(ctx)
	if err != nil {
		return err
	}
	if cur.ID != runner.Head().ID {
		log.Infof("restored database is at %s, upgrading to head", cur.ID)
		if err := runner.UpgradeToHead(ctx); err != nil {
			return err
		}
	}
	return nil
}

// resetSchema wipes the public schema through a plain administrative
// connection and puts the spatial extensions back.
func resetSchema(ctx context.Context, url string) error {
	conn, err := sql.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("opening admin connection: %w", err)
	}
	defer conn.Close()
	stmts := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"CREATE EXTENSION IF NOT EXISTS postgis",
		"CREATE EXTENSION IF NOT EXISTS btree_gist",
	}
	for _, s := range stmts {
		if _, err := conn.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
	}
	return nil
}
