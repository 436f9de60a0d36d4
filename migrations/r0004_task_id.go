package migrations

import (
	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/migrate"
)

// Release v3.0.0: scenarios carry the id of the task that is simulating them,
// so queue workers can find their scenario again.
var r0004TaskID = migrate.Revision{
	ID:     "5c0fd1b8e442",
	Parent: "9d4e21c7aa10",
	Label:  "3.0.0",
	Apply: func(tx *gorm.DB) error {
		if isPostgres(tx) {
			return execAll(tx, []string{
				`ALTER TABLE scenarios ADD COLUMN task_id UUID`,
				`CREATE UNIQUE INDEX ix_scenarios_task_id ON scenarios (task_id)`,
			})
		}
		return execAll(tx, []string{
			`ALTER TABLE scenarios ADD COLUMN task_id TEXT`,
			`CREATE UNIQUE INDEX ix_scenarios_task_id ON scenarios (task_id)`,
		})
	},
	Revert: func(tx *gorm.DB) error {
		return execAll(tx, []string{
			`DROP INDEX ix_scenarios_task_id`,
			`ALTER TABLE scenarios DROP COLUMN task_id`,
		})
	},
}
