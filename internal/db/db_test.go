package db

import (
	"path/filepath"
	"testing"
)

func TestNewUnsupportedDriver(t *testing.T) {
	if _, err := New("oracle", "dsn"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestGooseDialect(t *testing.T) {
	for _, driver := range []string{"sqlite3", "mysql", "postgres"} {
		got, err := gooseDialect(driver)
		if err != nil || got != driver {
			t.Errorf("gooseDialect(%q) = %q, %v", driver, got, err)
		}
	}
	if _, err := gooseDialect("mssql"); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestMigrateSQLite(t *testing.T) {
	conn, err := New("sqlite3", filepath.Join(t.TempDir(), "trail-mix.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Running again is a no-op.
	if err := Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	for _, table := range []string{"users", "sessions", "trails", "photos", "comments", "favorites", "travellog_entries"} {
		var n int
		if err := conn.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table); err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing after migrate", table)
		}
	}
}
