// Package store persists planned itineraries after the orchestrator returns
// them. Itineraries are written once and never updated.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

// Store saves and fetches itineraries by id. Save returns
// models.ErrAlreadyExists when the id is taken; Get returns
// models.ErrNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, it *models.Itinerary) error
	Get(ctx context.Context, id string) (*models.Itinerary, error)
}

// MemoryStore keeps itineraries in process. Used when no database is
// configured and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]models.Itinerary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.Itinerary)}
}

func (s *MemoryStore) Save(ctx context.Context, it *models.Itinerary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.items[it.ID]; taken {
		return fmt.Errorf("store.MemoryStore.Save: %s: %w", it.ID, models.ErrAlreadyExists)
	}
	s.items[it.ID] = *it
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &it, nil
}
