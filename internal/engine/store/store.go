// Package store holds the ordered records of a single analysis run.
package store

import (
	"iter"

	"github.com/crimson-sun/logwarden/internal/model"
)

// Store is an append-only sequence of records in file line order.
// It is built by one run and sealed before any consumer reads it; after
// Seal it is read-only and may be shared by the run's consumers without locking.
type Store struct {
	records []model.LogRecord
	sealed  bool
}

// New creates an empty, unsealed Store.
func New() *Store {
	return &Store{}
}

// FromRecords builds a sealed Store holding a copy of records.
func FromRecords(records []model.LogRecord) *Store {
	s := &Store{records: append([]model.LogRecord(nil), records...)}
	s.Seal()
	return s
}

// Append adds a record. It panics if the store is sealed.
func (s *Store) Append(rec model.LogRecord) {
	if s.sealed {
		panic("store: append to sealed store")
	}
	s.records = append(s.records, rec)
}

// Seal marks construction as finished.
func (s *Store) Seal() {
	s.sealed = true
}

// Sealed reports whether Seal has been called.
func (s *Store) Sealed() bool {
	return s.sealed
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// At returns the i-th record.
func (s *Store) At(i int) model.LogRecord {
	return s.records[i]
}

// Records returns a copy of all records in insertion order.
func (s *Store) Records() []model.LogRecord {
	return append([]model.LogRecord(nil), s.records...)
}

// All iterates records in insertion order.
func (s *Store) All() iter.Seq2[int, model.LogRecord] {
	return func(yield func(int, model.LogRecord) bool) {
		for i, r := range s.records {
			if !yield(i, r) {
				return
			}
		}
	}
}
