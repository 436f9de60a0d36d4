package scenario

import (
	"context"

	"gorm.io/gorm"
)

// Clone deep-copies a scenario and everything it owns within one database.
// The copy references the original through its parent id and starts without a
// task id. The id of the new scenario is returned.
func Clone(ctx context.Context, db *gorm.DB, scenarioID int64) (int64, error) {
	var newID int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := load(tx, scenarioID)
		if err != nil {
			return err
		}
		parent := scenarioID
		newID, err = insert(tx, g, &parent)
		return err
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}
