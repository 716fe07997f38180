package database

import (
	"log"

	"gorm.io/gorm"
)

// RefreshHistoryLimit is the number of refresh records kept
const RefreshHistoryLimit = 500

// RunMigrations runs data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	return pruneRefreshHistory(db, RefreshHistoryLimit)
}

// pruneRefreshHistory keeps only the newest keep refresh records
func pruneRefreshHistory(db *gorm.DB, keep int) error {
	result := db.Exec(`
		DELETE FROM refresh_records
		WHERE id NOT IN (
			SELECT id FROM refresh_records ORDER BY id DESC LIMIT ?
		)
	`, keep)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Pruned %d old refresh_records entries", result.RowsAffected)
	}
	return nil
}
