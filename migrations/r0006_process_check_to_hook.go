package migrations

import (
	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/migrate"
)

// Release v3.2.0: the process value check moves from the database into the
// model's save hook so both backends behave identically. SQLite cannot drop a
// table constraint, so the file backend rebuilds the table.
var r0006ProcessCheckToHook = migrate.Revision{
	ID:     "2f81cd64a9b3",
	Parent: "b7a93e02c615",
	Label:  "3.2.0",
	Apply: func(tx *gorm.DB) error {
		if isPostgres(tx) {
			return execAll(tx, []string{
				`ALTER TABLE processes DROP CONSTRAINT processes_value_check`,
			})
		}
		return rebuildProcessesSQLite(tx, false)
	},
	Revert: func(tx *gorm.DB) error {
		if isPostgres(tx) {
			return execAll(tx, []string{
				`ALTER TABLE processes ADD CONSTRAINT processes_value_check CHECK (
					(duration IS NULL OR duration >= 0)
					AND (electric_power IS NULL OR electric_power >= 0)
				)`,
			})
		}
		return rebuildProcessesSQLite(tx, true)
	},
}

func rebuildProcessesSQLite(tx *gorm.DB, withCheck bool) error {
	check := ``
	if withCheck {
		check = `,
		CHECK (
			(duration IS NULL OR duration >= 0)
			AND (electric_power IS NULL OR electric_power >= 0)
		)`
	}
	// Dropping the old table runs an implicit DELETE first. With foreign
	// keys on that cascades into plan_processes and area_processes, and the
	// pragma cannot be flipped inside the step's transaction, so the join
	// rows are kept aside and put back once the rebuilt table is in place.
	return execAll(tx, []string{
		`CREATE TEMPORARY TABLE plan_processes_keep AS SELECT * FROM plan_processes`,
		`CREATE TEMPORARY TABLE area_processes_keep AS SELECT * FROM area_processes`,
		`CREATE TABLE processes_new (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario_id INTEGER NOT NULL REFERENCES scenarios (id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			dispatchable BOOLEAN NOT NULL,
			duration INTEGER,
			electric_power REAL,
			availability TEXT` + check + `
		)`,
		`INSERT INTO processes_new (id, scenario_id, name, dispatchable, duration, electric_power, availability)
			SELECT id, scenario_id, name, dispatchable, duration, electric_power, availability FROM processes`,
		`DROP TABLE processes`,
		`ALTER TABLE processes_new RENAME TO processes`,
		`CREATE INDEX ix_processes_scenario_id ON processes (scenario_id)`,
		`DELETE FROM plan_processes`,
		`INSERT INTO plan_processes SELECT * FROM plan_processes_keep`,
		`DELETE FROM area_processes`,
		`INSERT INTO area_processes SELECT * FROM area_processes_keep`,
		`DROP TABLE plan_processes_keep`,
		`DROP TABLE area_processes_keep`,
	})
}
