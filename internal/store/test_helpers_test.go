package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/session"
	"github.com/roach88/sieve/internal/value"
)

// createTestStore opens a store in a per-test temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testDataset() dataset.Dataset {
	rec := func(name string, age int64, height float64, active bool, scores ...int64) dataset.Record {
		return dataset.NewRecord(
			dataset.F("name", value.String(name)),
			dataset.F("age", value.Int(age)),
			dataset.F("height", value.Float(height)),
			dataset.F("active", value.Bool(active)),
			dataset.F("scores", value.Ints(scores...)),
		)
	}
	return dataset.Dataset{
		rec("Alice", 30, 1.7, true, 90, 80),
		rec("Bob", 25, 1.8, false, 70),
		rec("Carol", 41, 1.6, true, 60, 65, 70),
	}
}

func createTestSession(id string) *session.Session {
	return session.New(id, "people.json", testDataset())
}
