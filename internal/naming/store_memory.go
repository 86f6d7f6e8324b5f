package naming

import (
	"context"
	"sync"
)

type seriesKey struct {
	series string
	year   int
}

// InMemoryStore keeps counters in a map. Values are unique within one process only.
type InMemoryStore struct {
	mu     sync.Mutex
	values map[seriesKey]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[seriesKey]int64)}
}

func (s *InMemoryStore) Next(_ context.Context, series string, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := seriesKey{series: series, year: year}
	s.values[key]++
	return s.values[key], nil
}
