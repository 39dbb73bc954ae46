package database

import (
	"fmt"

	"gorm.io/gorm"
)

// PendingPairIndex is the partial unique index that allows one pending request per unordered pair.
const PendingPairIndex = "idx_connection_requests_pending_pair"

// Migrate creates the tables and the pending-pair constraint.
// The partial index syntax is shared by PostgreSQL and SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON connection_requests (pair_key) WHERE status = 'pending'",
		PendingPairIndex,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create %s: %w", PendingPairIndex, err)
	}
	return nil
}
