package restaurant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bitebase/internal/apperr"
	"bitebase/internal/geo"
)

// MemoryRepository backs tests and the offline CLI.
type MemoryRepository struct {
	mu          sync.RWMutex
	restaurants []*Restaurant
	nextID      int
	createErr   error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (m *MemoryRepository) Create(_ context.Context, restaurant *Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}

	restaurant.ID = m.nextID
	m.nextID++
	restaurant.CreatedAt = time.Now()

	cp := *restaurant
	m.restaurants = append(m.restaurants, &cp)
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int) (*Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.restaurants {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("restaurant %d: %w", id, apperr.ErrNotFound)
}

func (m *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Restaurant
	for _, r := range m.restaurants {
		if r.OwnerID == ownerID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryRepository) Search(_ context.Context, f Filter) ([]*Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Restaurant
	for _, r := range m.restaurants {
		if r.Status != StatusActive {
			continue
		}
		if f.City != "" && !strings.EqualFold(r.City, f.City) {
			continue
		}
		if f.CuisineType != "" && !strings.EqualFold(r.CuisineType, f.CuisineType) {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Query)) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ID < out[j].ID
	})

	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryRepository) UpdateStatus(_ context.Context, id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.restaurants {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return fmt.Errorf("restaurant %d: %w", id, apperr.ErrNotFound)
}

func (m *MemoryRepository) ListInBounds(_ context.Context, b geo.Bounds) ([]Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Restaurant
	for _, r := range m.restaurants {
		if r.Status == StatusActive && b.Contains(r.Location()) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MemoryRepository) IsOwner(_ context.Context, restaurantID int, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.restaurants {
		if r.ID == restaurantID {
			return r.OwnerID == userID, nil
		}
	}
	return false, nil
}
