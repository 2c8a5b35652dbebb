package competition

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bitebase/internal/apperr"
)

// MemoryStore keeps samples and snapshots in process. Used by tests and the
// offline CLI.
type MemoryStore struct {
	mu        sync.RWMutex
	samples   map[Pair][]Sample
	names     map[Pair]Pair
	snapshots map[Pair]Snapshot
	nextID    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		samples:   make(map[Pair][]Sample),
		names:     make(map[Pair]Pair),
		snapshots: make(map[Pair]Snapshot),
		nextID:    1,
	}
}

func key(city, cuisine string) Pair {
	return Pair{City: strings.ToLower(city), CuisineType: strings.ToLower(cuisine)}
}

func (m *MemoryStore) AddSample(city, cuisine string, s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(city, cuisine)
	if _, ok := m.names[k]; !ok {
		m.names[k] = Pair{City: city, CuisineType: cuisine}
	}
	m.samples[k] = append(m.samples[k], s)
}

func (m *MemoryStore) ListSamples(_ context.Context, city, cuisine string) ([]Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.samples[key(city, cuisine)]
	out := make([]Sample, len(src))
	copy(out, src)
	return out, nil
}

func (m *MemoryStore) ListPairs(context.Context) ([]Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pairs := make([]Pair, 0, len(m.names))
	for _, p := range m.names {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].City != pairs[j].City {
			return pairs[i].City < pairs[j].City
		}
		return pairs[i].CuisineType < pairs[j].CuisineType
	})
	return pairs, nil
}

func (m *MemoryStore) UpsertSnapshot(_ context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(s.City, s.CuisineType)
	now := time.Now()

	if prev, ok := m.snapshots[k]; ok {
		s.ID = prev.ID
		s.CreatedAt = prev.CreatedAt
	} else {
		s.ID = m.nextID
		m.nextID++
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	m.snapshots[k] = s
	return nil
}

func (m *MemoryStore) GetSnapshot(_ context.Context, city, cuisine string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[key(city, cuisine)]
	if !ok {
		return nil, fmt.Errorf("snapshot %s/%s: %w", city, cuisine, apperr.ErrNotFound)
	}
	return &s, nil
}
