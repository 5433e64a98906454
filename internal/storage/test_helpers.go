package storage

import (
	"path/filepath"
	"testing"
)

// setupTestService creates a migrated database in a temporary directory.
func setupTestService(t *testing.T) *Service {
	t.Helper()

	db := NewTestDB(t)
	return NewService(db)
}

// NewTestDB opens a migrated database file under t.TempDir.
// It is exported for use in other package tests.
func NewTestDB(t testing.TB) *DB {
	t.Helper()

	config := DefaultConfig(filepath.Join(t.TempDir(), "test.db"))
	config.AutoMigrate = true

	db, err := Open(config)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
