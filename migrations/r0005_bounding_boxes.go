package migrations

import (
	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/migrate"
)

// Release v3.1.0: depots and areas gain footprint polygons for layout tools.
var r0005BoundingBoxes = migrate.Revision{
	ID:     "b7a93e02c615",
	Parent: "5c0fd1b8e442",
	Label:  "3.1.0",
	Apply: func(tx *gorm.DB) error {
		if isPostgres(tx) {
			return execAll(tx, []string{
				`ALTER TABLE depots ADD COLUMN bounding_box geometry(Polygon,4326)`,
				`ALTER TABLE areas ADD COLUMN bounding_box geometry(Polygon,4326)`,
			})
		}
		return execAll(tx, []string{
			`ALTER TABLE depots ADD COLUMN bounding_box BLOB`,
			`ALTER TABLE areas ADD COLUMN bounding_box BLOB`,
		})
	},
	Revert: func(tx *gorm.DB) error {
		return execAll(tx, []string{
			`ALTER TABLE depots DROP COLUMN bounding_box`,
			`ALTER TABLE areas DROP COLUMN bounding_box`,
		})
	},
}
