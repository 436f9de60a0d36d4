// Package migrations holds the concrete schema history. Revisions are applied
// through core/migrate; each one carries forward and backward DDL for both
// PostgreSQL and the SpatiaLite file backend.
package migrations

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/migrate"
)

// Version is the schema release consuming tools compile against. It always
// matches the label of the head revision.
const Version = "3.2.0"

// All returns the full revision chain, oldest first.
func All() []migrate.Revision {
	return []migrate.Revision{
		r0001InitialSchema,
		r0002LoadedMass,
		r0003CapacityReserve,
		r0004TaskID,
		r0005BoundingBoxes,
		r0006ProcessCheckToHook,
	}
}

// Head returns the newest revision.
func Head() migrate.Revision {
	all := All()
	return all[len(all)-1]
}

func isPostgres(tx *gorm.DB) bool {
	return tx.Dialector.Name() == "postgres"
}

func execAll(tx *gorm.DB, stmts []string) error {
	for _, s := range stmts {
		if err := tx.Exec(s).Error; err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}
