package migrations

import (
	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/migrate"
)

// Release v2.0.0: trips carry an absolute payload in kg instead of a loading
// fraction, and vehicle types gain the maximum payload the fraction used to
// be relative to. The fraction cannot be recomputed without the new column,
// so the old data is discarded in both directions.
var r0002LoadedMass = migrate.Revision{
	ID:     "f3b2a1c9d804",
	Parent: "e86ab5bf47cc",
	Label:  "2.0.0",
	Apply: func(tx *gorm.DB) error {
		if isPostgres(tx) {
			return execAll(tx, []string{
				`ALTER TABLE vehicle_types ADD COLUMN allowed_mass DOUBLE PRECISION
					CONSTRAINT vehicle_types_allowed_mass_check
					CHECK (allowed_mass IS NULL OR allowed_mass > 0)`,
				`ALTER TABLE trips DROP COLUMN level_of_loading`,
				`ALTER TABLE trips ADD COLUMN loaded_mass DOUBLE PRECISION
					CONSTRAINT trips_loaded_mass_check
					CHECK (loaded_mass IS NULL OR loaded_mass >= 0)`,
			})
		}
		return execAll(tx, []string{
			`ALTER TABLE vehicle_types ADD COLUMN allowed_mass REAL
				CHECK (allowed_mass IS NULL OR allowed_mass > 0)`,
			`ALTER TABLE trips DROP COLUMN level_of_loading`,
			`ALTER TABLE trips ADD COLUMN loaded_mass REAL
				CHECK (loaded_mass IS NULL OR loaded_mass >= 0)`,
		})
	},
	Revert: func(tx *gorm.DB) error {
		if isPostgres(tx) {
			return execAll(tx, []string{
				`ALTER TABLE trips DROP COLUMN loaded_mass`,
				`ALTER TABLE trips ADD COLUMN level_of_loading DOUBLE PRECISION
					CONSTRAINT trips_level_of_loading_check
					CHECK (level_of_loading IS NULL OR (level_of_loading >= 0 AND level_of_loading <= 1))`,
				`ALTER TABLE vehicle_types DROP COLUMN allowed_mass`,
			})
		}
		return execAll(tx, []string{
			`ALTER TABLE trips DROP COLUMN loaded_mass`,
			`ALTER TABLE trips ADD COLUMN level_of_loading REAL
				CHECK (level_of_loading IS NULL OR (level_of_loading >= 0 AND level_of_loading <= 1))`,
			`ALTER TABLE vehicle_types DROP COLUMN allowed_mass`,
		})
	},
}
