package records

import (
	"os"
	"sync"

	"github.com/JoseGzz/car-accident-clusters/internal/monitoring"
)

// Loader produces a full set of records from some backing source.
type Loader func() ([]Record, error)

// Store holds the process-wide record set. Reads return the current
// snapshot; Reload replaces the snapshot atomically under the write
// lock. The records inside a snapshot are never mutated.
type Store struct {
	mu      sync.RWMutex
	records []Record

	load   Loader
	source string
}

// NewStore creates a store that fills itself from the given loader.
// The initial load runs immediately.
func NewStore(source string, load Loader) (*Store, error) {
	s := &Store{load: load, source: source}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFromCSV creates a store backed by a CSV file. A missing file is not
// an error: the store starts empty, matching the "empty store is valid"
// startup policy, and a later reload can pick the file up.
func NewFromCSV(path string) (*Store, error) {
	return NewStore(path, func() ([]Record, error) {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				monitoring.Logf("records: %s not found, starting with empty store", path)
				return nil, nil
			}
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	})
}

// Snapshot returns the current record slice. Callers must treat it as
// read-only; it stays valid across concurrent reloads.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Len returns the number of records in the current snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Source describes where the store's records come from.
func (s *Store) Source() string { return s.source }

// Reload re-reads the backing source and swaps in the new record set,
// returning the new record count. On error the previous snapshot is
// kept.
func (s *Store) Reload() (int, error) {
	recs, err := s.load()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.records = recs
	s.mu.Unlock()

	return len(recs), nil
}
