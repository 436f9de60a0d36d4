package migrations

import (
	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/migrate"
)

// Release v2.1.0: vehicle types gain a battery capacity reserve below the
// nominal zero, for emergency use.
var r0003CapacityReserve = migrate.Revision{
	ID:     "9d4e21c7aa10",
	Parent: "f3b2a1c9d804",
	Label:  "2.1.0",
	Apply: func(tx *gorm.DB) error {
		if isPostgres(tx) {
			return execAll(tx, []string{
				`ALTER TABLE vehicle_types ADD COLUMN battery_capacity_reserve DOUBLE PRECISION
					NOT NULL DEFAULT 0
					CONSTRAINT vehicle_types_battery_capacity_reserve_check
					CHECK (battery_capacity_reserve >= 0)`,
			})
		}
		return execAll(tx, []string{
			`ALTER TABLE vehicle_types ADD COLUMN battery_capacity_reserve REAL
				NOT NULL DEFAULT 0 CHECK (battery_capacity_reserve >= 0)`,
		})
	},
	Revert: func(tx *gorm.DB) error {
		return execAll(tx, []string{
			`ALTER TABLE vehicle_types DROP COLUMN battery_capacity_reserve`,
		})
	},
}
