// Package store holds the authoritative, bounded, newest-first list of threat records.
package store

import (
	"github.com/pynezz/cybermap/internal/threat"
)

// DefaultCapacity is the number of records kept before the oldest are dropped.
const DefaultCapacity = 200

// Store is ordered by insertion, newest first. Timestamps are backdated at
// random so insertion order and timestamp order differ.
//
// A Store is owned by a single goroutine (the dashboard loop) and is not
// safe for concurrent use.
type Store struct {
	records  []threat.Record
	capacity int
}

// New returns an empty store bounded to capacity records.
// A non-positive capacity means DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Reload replaces the whole store with records, keeping their order.
// Records beyond capacity are dropped from the tail.
func (s *Store) Reload(records []threat.Record) {
	n := len(records)
	if n > s.capacity {
		n = s.capacity
	}
	s.records = make([]threat.Record, n, s.capacity)
	copy(s.records, records[:n])
}

// Prepend inserts r at the front and truncates the tail to capacity.
// It reports how many records were dropped.
func (s *Store) Prepend(r threat.Record) int {
	s.records = append(s.records, threat.Record{})
	copy(s.records[1:], s.records)
	s.records[0] = r

	dropped := 0
	if len(s.records) > s.capacity {
		dropped = len(s.records) - s.capacity
		clear(s.records[s.capacity:])
		s.records = s.records[:s.capacity]
	}
	return dropped
}

// Records returns a copy of the store contents, newest first. The result is
// never nil so it serializes as an empty JSON array.
func (s *Store) Records() []threat.Record {
	out := make([]threat.Record, len(s.records))
	copy(out, s.records)
	return out
}

// View returns the backing slice without copying. Callers must not modify
// it nor keep it past the next mutation.
func (s *Store) View() []threat.Record {
	return s.records
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) Capacity() int {
	return s.capacity
}
