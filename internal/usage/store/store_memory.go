package store

import (
	"context"
	"maps"
	"sync"
)

// InMemoryStore keeps daily counters in process memory. Counters are lost on
// restart and never expire.
type InMemoryStore struct {
	mu     sync.RWMutex
	counts map[string]map[string]int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{counts: make(map[string]map[string]int64)}
}

func (s *InMemoryStore) Increment(_ context.Context, day, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byLabel, ok := s.counts[day]
	if !ok {
		byLabel = make(map[string]int64)
		s.counts[day] = byLabel
	}
	byLabel[label]++
	return nil
}

// Counts returns a copy of the counters for day; an unknown day is empty.
func (s *InMemoryStore) Counts(_ context.Context, day string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(s.counts[day]))
	maps.Copy(out, s.counts[day])
	return out, nil
}
