package market

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bitebase/internal/apperr"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	analyses map[string]*MarketAnalysis
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{analyses: make(map[string]*MarketAnalysis)}
}

func (m *MemoryRepository) Create(_ context.Context, a *MarketAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.analyses[a.ID]; exists {
		return fmt.Errorf("analysis %s: %w", a.ID, apperr.ErrConflict)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	m.analyses[a.ID] = &cp
	return nil
}

func (m *MemoryRepository) Finish(_ context.Context, a *MarketAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.analyses[a.ID]
	if !ok {
		return fmt.Errorf("analysis %s: %w", a.ID, apperr.ErrNotFound)
	}
	stored.Status = a.Status
	stored.Results = a.Results
	stored.Error = a.Error
	stored.ReportURL = a.ReportURL
	stored.CompletedAt = a.CompletedAt
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*MarketAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.analyses[id]
	if !ok {
		return nil, fmt.Errorf("analysis %s: %w", id, apperr.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepository) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*MarketAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*MarketAnalysis
	for _, a := range m.analyses {
		if a.OwnerID == ownerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
