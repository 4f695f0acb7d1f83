package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations executes all database migrations
func RunMigrations(db *gorm.DB) error {
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// Index for query log listing
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_query_logs_time
		ON query_logs(query_time)
	`).Error; err != nil {
		return err
	}

	// Index for per-operation outcome reports
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_query_logs_outcome
		ON query_logs(operation, success)
	`).Error; err != nil {
		return err
	}

	return nil
}
