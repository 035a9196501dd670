// Package directory holds the immutable employee record set, the search filter
// over it, and the interaction state (query, filtered view, open overlay) that
// every user-facing surface drives.
package directory

import (
	"fmt"

	"github.com/hpungsan/roster/internal/employee"
	"github.com/hpungsan/roster/internal/errors"
)

// Store is the fixed, ordered record set. It is never mutated after New and is
// safe for concurrent readers.
type Store struct {
	records []employee.Employee
	index   map[int]int // id -> position in records
}

// New builds a Store from records, preserving their order.
// IDs must be positive and unique.
func New(records []employee.Employee) (*Store, error) {
	s := &Store{
		records: make([]employee.Employee, len(records)),
		index:   make(map[int]int, len(records)),
	}
	copy(s.records, records)

	for i, rec := range s.records {
		if rec.ID <= 0 {
			return nil, errors.NewInvalidRecord(i, fmt.Sprintf("id must be greater than 0, got %d", rec.ID))
		}
		if prev, dup := s.index[rec.ID]; dup {
			return nil, errors.NewInvalidRecord(i, fmt.Sprintf("duplicate id %d (first used by record %d)", rec.ID, prev))
		}
		s.index[rec.ID] = i
	}
	return s, nil
}

// All returns a copy of every record in directory order.
func (s *Store) All() []employee.Employee {
	out := make([]employee.Employee, len(s.records))
	copy(out, s.records)
	return out
}

// FindByID returns the record with id, if present.
func (s *Store) FindByID(id int) (employee.Employee, bool) {
	i, ok := s.index[id]
	if !ok {
		return employee.Employee{}, false
	}
	return s.records[i], true
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}
