package records

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accidents.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(accidentsSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	rows := [][3]interface{}{
		{40.4168, -3.7038, "2025-03-15 14:30:00"},
		{40.4169, -3.7039, "2025-03-15 15:00:00"},
		{10.0, 10.0, "2025-06-01 08:00:00"},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO accidents (latitude, longitude, date) VALUES (?, ?, ?)`,
			r[0], r[1], r[2]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return path
}

func TestNewFromSQLSqlite(t *testing.T) {
	path := seedSQLite(t)

	s, err := NewFromSQL("sqlite", path)
	if err != nil {
		t.Fatalf("NewFromSQL: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("loaded %d records, want 3", s.Len())
	}

	recs := s.Snapshot()
	// Insertion order is preserved through ORDER BY id.
	if recs[0].Latitude != 40.4168 || recs[2].Latitude != 10.0 {
		t.Errorf("records out of order: %+v", recs)
	}
	if recs[0].Date.Hour() != 14 {
		t.Errorf("first record hour = %d, want 14", recs[0].Date.Hour())
	}
}

func TestNewFromSQLReload(t *testing.T) {
	path := seedSQLite(t)

	s, err := NewFromSQL("sqlite", path)
	if err != nil {
		t.Fatalf("NewFromSQL: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(
		`INSERT INTO accidents (latitude, longitude, date) VALUES (41.0, -4.0, '2025-07-01 12:00:00')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	count, err := s.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if count != 4 {
		t.Errorf("reloaded %d records, want 4", count)
	}
}

func TestCoerceTime(t *testing.T) {
	for _, v := range []interface{}{
		"2025-03-15 14:30:00",
		[]byte("2025-03-15 14:30:00"),
	} {
		got, err := coerceTime(v)
		if err != nil {
			t.Fatalf("coerceTime(%T): %v", v, err)
		}
		if got.Hour() != 14 || got.Minute() != 30 {
			t.Errorf("coerceTime(%T) = %v", v, got)
		}
	}

	if _, err := coerceTime(3.14); err == nil {
		t.Error("expected error for unsupported type")
	}
}
