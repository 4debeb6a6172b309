// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"fintrack-backend/config"
	"fintrack-backend/internal/database"

	"gorm.io/gorm"
)

// OpenDB returns a migrated SQLite database in a temp dir. A single
// connection serializes writers the way a row-locking server would.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
