package sqlutil

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`CREATE TABLE items (name TEXT); INSERT INTO items VALUES ('a'), ('b'), ('c')`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func TestScanRows(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`SELECT name FROM items ORDER BY name`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ScanRows(rows, func(r *sql.Rows) (string, error) {
		var s string
		err := r.Scan(&s)
		return s, err
	})
	if err != nil {
		t.Fatalf("ScanRows: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("ScanRows = %v, want [a b c]", got)
	}
}

func TestScanRowsStopsOnError(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`SELECT name FROM items ORDER BY name`)
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	calls := 0
	_, err = ScanRows(rows, func(r *sql.Rows) (string, error) {
		calls++
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ScanRows error = %v, want boom", err)
	}
	if calls != 1 {
		t.Errorf("scanner called %d times, want 1", calls)
	}
}
