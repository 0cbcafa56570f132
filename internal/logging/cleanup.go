package logging

import (
	"log/slog"
	"time"

	"github.com/wavelinehq/waveline/internal/models"
	"gorm.io/gorm"
)

// Retention window for persisted log records.
const (
	retentionDays   = 30
	cleanupInterval = 24 * time.Hour
)

// StartCleanup prunes expired system_logs rows on a daily schedule until
// done is closed.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pruneExpiredLogs(db)
			case <-done:
				return
			}
		}
	}()
}

func pruneExpiredLogs(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
}
