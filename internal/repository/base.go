// Package repository implements the data access layer for the application.
package repository

import (
	"strings"

	"warbler/internal/database"

	"gorm.io/gorm"
)

// readReplica returns the read replica when configured, otherwise the
// repository's own handle. Read-only queries that tolerate replication
// lag should go through this.
func readReplica(fallback *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return fallback
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505, SQLite "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
