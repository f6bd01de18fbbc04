// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema; do not hardcode CREATE TABLE statements in test
// files.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/upkeep/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedEquipment inserts a test equipment entry and returns its ID.
func seedEquipment(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "EQ-001"
	}
	if name == "" {
		name = "Test Pump"
	}
	_, err := db.Exec("INSERT INTO equipment (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		t.Fatalf("failed to seed equipment: %v", err)
	}
	return id
}
