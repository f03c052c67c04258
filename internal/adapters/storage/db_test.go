package storage

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestInitDB_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	want := []string{"account", "chat_message", "outbox_email", "plan_document", "student"}
	got := getTableNames(t, db)
	if len(got) != len(want) {
		t.Fatalf("got tables %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("table %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
}

func TestInitDB_ForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	_, err := db.Exec(
		`INSERT INTO student (id, account_id, username, email, status, created_at)
		 VALUES ('s1', 'missing-account', 'lucia', 'lucia@example.com', 'pending', '2026-01-01T00:00:00Z')`)
	if err == nil {
		t.Fatal("insert with dangling account_id succeeded")
	}
}

func TestTimedDB_SatisfiesSQLDB(t *testing.T) {
	db := openTestDB(t)
	timed := NewTimedDB(db)
	if err := InitDB(timed.RawDB()); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	ctx := context.Background()
	if _, err := timed.ExecContext(ctx,
		`INSERT INTO account (id, email, role, created_at) VALUES ('a1', 'coach@example.com', 'admin', '2026-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("exec through TimedDB failed: %v", err)
	}
	var count int
	if err := timed.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&count); err != nil {
		t.Fatalf("query through TimedDB failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
