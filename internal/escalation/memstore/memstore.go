// Package memstore provides the in-memory implementation of escalation.Store.
// All state is process-resident and lost on restart; that is an accepted
// limitation of this system, not a bug.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/linnemanlabs/handoff/internal/escalation"
)

// Store holds escalation records in insertion order. The backing slice is
// owned exclusively by the Store; every read hands out deep copies and all
// mutations are serialized behind the lock, so concurrent appends never
// interleave and a status update never produces a torn read in All.
type Store struct {
	mu      sync.RWMutex
	records []*escalation.Escalation
	byID    map[string]*escalation.Escalation
}

// New initializes an empty Store.
func New() *Store {
	return &Store{byID: make(map[string]*escalation.Escalation)}
}

// Append adds a record to the end. It never fails; growth is unbounded.
func (s *Store) Append(_ context.Context, e *escalation.Escalation) error {
	cp := e.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, cp)
	s.byID[cp.ID] = cp
	return nil
}

// All returns a snapshot of every record in insertion order.
func (s *Store) All(_ context.Context) ([]escalation.Escalation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]escalation.Escalation, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r.Clone())
	}
	return out, nil
}

// Get retrieves a record by ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*escalation.Escalation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, false, nil
	}
	return r.Clone(), true, nil
}

// UpdateStatus replaces status (and assigned_to when non-nil) in place.
// CreatedAt and all other fields are preserved.
func (s *Store) UpdateStatus(_ context.Context, id string, status escalation.Status, assignedTo *string) (*escalation.Escalation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, false, nil
	}
	r.Status = status
	if assignedTo != nil {
		v := *assignedTo
		r.AssignedTo = &v
	}
	now := time.Now().UTC()
	r.UpdatedAt = &now
	return r.Clone(), true, nil
}

// AddNote attaches a copy of the note to the record.
func (s *Store) AddNote(_ context.Context, id string, note *escalation.Note) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	r.Notes = append(r.Notes, *note)
	now := time.Now().UTC()
	r.UpdatedAt = &now
	return true, nil
}

// Len reports the current record count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
