package records

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JoseGzz/car-accident-clusters/internal/monitoring"
	"github.com/JoseGzz/car-accident-clusters/internal/testutil"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accidents.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestNewFromCSV(t *testing.T) {
	path := testutil.WriteTempCSV(t,
		"40.4168,-3.7038,2025-03-15 14:30:00",
		"40.4169,-3.7039,2025-03-15",
		"40.4170,-3.7040,2025-03-16T09:00:00Z",
	)

	s, err := NewFromCSV(path)
	testutil.AssertNoError(t, err)
	if s.Len() != 3 {
		t.Fatalf("loaded %d records, want 3", s.Len())
	}

	recs := s.Snapshot()
	if recs[0].Latitude != 40.4168 || recs[0].Longitude != -3.7038 {
		t.Errorf("first record = %+v", recs[0])
	}
	if got := recs[0].Date.Hour(); got != 14 {
		t.Errorf("first record hour = %d, want 14", got)
	}
}

func TestNewFromCSVMissingFileIsEmptyStore(t *testing.T) {
	s, err := NewFromCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("store has %d records, want 0", s.Len())
	}
}

func TestNewFromCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{"bad header", "foo,bar,baz\n1,2,3\n", "header"},
		{"bad latitude", "latitude,longitude,date\nabc,-3.7,2025-01-01\n", "latitude"},
		{"latitude out of range", "latitude,longitude,date\n95,-3.7,2025-01-01\n", "out of range"},
		{"longitude out of range", "latitude,longitude,date\n40,181,2025-01-01\n", "out of range"},
		{"bad date", "latitude,longitude,date\n40,-3.7,soon\n", "timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			_, err := NewFromCSV(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestReloadSwapsSnapshot(t *testing.T) {
	path := writeCSV(t, "latitude,longitude,date\n40.0,-3.0,2025-01-01\n")
	s, err := NewFromCSV(path)
	if err != nil {
		t.Fatalf("NewFromCSV: %v", err)
	}

	before := s.Snapshot()

	if err := os.WriteFile(path, []byte(
		"latitude,longitude,date\n40.0,-3.0,2025-01-01\n41.0,-4.0,2025-02-01\n"), 0o644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}

	count, err := s.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if count != 2 || s.Len() != 2 {
		t.Errorf("after reload count=%d len=%d, want 2", count, s.Len())
	}

	// The earlier snapshot must be untouched by the swap.
	if len(before) != 1 {
		t.Errorf("pre-reload snapshot changed: %d records", len(before))
	}
}

func TestReloadKeepsOldSnapshotOnError(t *testing.T) {
	loads := 0
	s, err := NewStore("test", func() ([]Record, error) {
		loads++
		if loads > 1 {
			return nil, errors.New("backing source went away")
		}
		return []Record{{Latitude: 1, Longitude: 2}}, nil
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, err := s.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if s.Len() != 1 {
		t.Errorf("failed reload dropped records: len=%d, want 1", s.Len())
	}
}
