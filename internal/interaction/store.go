package interaction

import "sync"

// Store holds interactions in memory, keyed by conversation ID.
type Store struct {
	mu      sync.RWMutex
	records []*Interaction
	byID    map[string]int // conversation ID -> index in records
}

// NewStore initializes an empty Store.
func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Upsert stores a copy of rec, replacing any existing record with the same
// ID in place. Reports whether an existing record was replaced.
func (s *Store) Upsert(rec *Interaction) bool {
	cp := *rec
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.byID[cp.ID]; ok {
		s.records[i] = &cp
		return true
	}
	s.records = append(s.records, &cp)
	s.byID[cp.ID] = len(s.records) - 1
	return false
}

// Get retrieves an interaction by conversation ID. Returns a copy.
func (s *Store) Get(id string) (*Interaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	cp := *s.records[i]
	return &cp, true
}

// All returns a snapshot of every interaction in insertion order.
func (s *Store) All() []Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Interaction, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	return out
}

// Len reports the current record count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
