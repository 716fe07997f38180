package database

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/tcg-catalog/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"), "silent")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return db
}

func TestOpenMigratesSchema(t *testing.T) {
	db := openTestDB(t)
	for _, table := range []string{"cert_records", "refresh_records"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s missing after Open", table)
		}
	}
}

func TestPruneRefreshHistory(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 5; i++ {
		db.Create(&models.RefreshRecord{StartedAt: time.Now(), Trigger: "manual"})
	}

	if err := pruneRefreshHistory(db, 2); err != nil {
		t.Fatalf("pruneRefreshHistory() error = %v", err)
	}

	var ids []uint
	db.Model(&models.RefreshRecord{}).Order("id").Pluck("id", &ids)
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 5 {
		t.Errorf("kept ids = %v, want [4 5]", ids)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"info", logger.Info},
		{" INFO ", logger.Info},
		{"silent", logger.Silent},
		{"error", logger.Error},
		{"", logger.Warn},
		{"verbose", logger.Warn},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
