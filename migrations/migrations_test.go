package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kilianp07/fleetdb/core/migrate"
	"github.com/kilianp07/fleetdb/core/model"
	"github.com/kilianp07/fleetdb/migrations"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "fleet.db") + "?_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestVersionMatchesHeadLabel(t *testing.T) {
	require.Equal(t, migrations.Version, migrations.Head().Label)
}

func TestChainIsLinear(t *testing.T) {
	r, err := migrate.NewRunner(openTestDB(t), migrations.All())
	require.NoError(t, err)
	chain := r.Chain()
	require.Len(t, chain, 6)
	for i, rev := range migrations.All() {
		require.Equal(t, rev.ID, chain[i].ID, "chain order")
	}
}

func TestFullUpgradeCreatesEveryTable(t *testing.T) {
	db := openTestDB(t)
	r, err := migrate.NewRunner(db, migrations.All())
	require.NoError(t, err)
	require.NoError(t, r.UpgradeToHead(context.Background()))

	for _, table := range model.TableNames() {
		require.True(t, db.Migrator().HasTable(table), table)
	}
	// Columns added by later revisions.
	require.True(t, db.Migrator().HasColumn("trips", "loaded_mass"))
	require.False(t, db.Migrator().HasColumn("trips", "level_of_loading"))
	require.True(t, db.Migrator().HasColumn("vehicle_types", "allowed_mass"))
	require.True(t, db.Migrator().HasColumn("vehicle_types", "battery_capacity_reserve"))
	require.True(t, db.Migrator().HasColumn("scenarios", "task_id"))
	require.True(t, db.Migrator().HasColumn("depots", "bounding_box"))
	require.True(t, db.Migrator().HasColumn("areas", "bounding_box"))
}

func TestFullDowngradeLeavesOnlyTheStamp(t *testing.T) {
	db := openTestDB(t)
	r, err := migrate.NewRunner(db, migrations.All())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, r.UpgradeToHead(ctx))
	require.NoError(t, r.DowngradeTo(ctx, migrate.Base))

	tables, err := db.Migrator().GetTables()
	require.NoError(t, err)
	var rest []string
	for _, table := range tables {
		if table == "sqlite_sequence" {
			continue
		}
		rest = append(rest, table)
	}
	require.Equal(t, []string{"schema_version"}, rest)
}

func TestStepwiseUpgrade(t *testing.T) {
	db := openTestDB(t)
	r, err := migrate.NewRunner(db, migrations.All())
	require.NoError(t, err)
	ctx := context.Background()

	first := migrations.All()[0]
	require.NoError(t, r.UpgradeTo(ctx, first.ID))
	require.True(t, db.Migrator().HasColumn("trips", "level_of_loading"))
	require.False(t, db.Migrator().HasColumn("trips", "loaded_mass"))

	require.NoError(t, r.UpgradeToHead(ctx))
	cur, err := r.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, migrations.Head().ID, cur.ID)
	require.Equal(t, migrations.Version, cur.Label)
}

func TestProcessRebuildKeepsRows(t *testing.T) {
	db := openTestDB(t)
	r, err := migrate.NewRunner(db, migrations.All())
	require.NoError(t, err)
	ctx := context.Background()
	all := migrations.All()
	require.NoError(t, r.UpgradeTo(ctx, all[len(all)-2].ID))

	for _, stmt := range []string{
		`INSERT INTO scenarios (name) VALUES ('rebuild')`,
		`INSERT INTO stations (scenario_id, name, is_electrified) VALUES (1, 'Depot', 0)`,
		`INSERT INTO plans (scenario_id, name) VALUES (1, 'default')`,
		`INSERT INTO processes (scenario_id, name, dispatchable, electric_power)
			VALUES (1, 'charging', 1, 120)`,
		`INSERT INTO depots (scenario_id, station_id, name, default_plan_id) VALUES (1, 1, 'Depot', 1)`,
		`INSERT INTO areas (scenario_id, depot_id, area_type, capacity) VALUES (1, 1, 'DIRECT_ONESIDE', 4)`,
		`INSERT INTO plan_processes (scenario_id, plan_id, process_id, ordinal) VALUES (1, 1, 1, 0)`,
		`INSERT INTO area_processes (area_id, process_id) VALUES (1, 1)`,
	} {
		require.NoError(t, db.Exec(stmt).Error, stmt)
	}

	count := func(table string) int64 {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		return n
	}

	require.NoError(t, r.UpgradeToHead(ctx))
	require.EqualValues(t, 1, count("processes"))
	require.EqualValues(t, 1, count("plan_processes"), "join rows must survive the table rebuild")
	require.EqualValues(t, 1, count("area_processes"), "join rows must survive the table rebuild")

	var power float64
	require.NoError(t, db.Raw(`SELECT electric_power FROM processes WHERE id = 1`).Scan(&power).Error)
	require.Equal(t, 120.0, power)

	require.NoError(t, r.DowngradeTo(ctx, all[len(all)-2].ID))
	require.EqualValues(t, 1, count("processes"))
	require.EqualValues(t, 1, count("plan_processes"))
	require.EqualValues(t, 1, count("area_processes"))
}

func TestDowngradeRestoresOldColumns(t *testing.T) {
	db := openTestDB(t)
	r, err := migrate.NewRunner(db, migrations.All())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, r.UpgradeToHead(ctx))

	all := migrations.All()
	require.NoError(t, r.DowngradeTo(ctx, all[0].ID))
	require.True(t, db.Migrator().HasColumn("trips", "level_of_loading"))
	require.False(t, db.Migrator().HasColumn("trips", "loaded_mass"))
	require.False(t, db.Migrator().HasColumn("scenarios", "task_id"))
	require.False(t, db.Migrator().HasColumn("depots", "bounding_box"))
}
