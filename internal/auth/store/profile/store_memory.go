package profile

import (
	"context"
	"fmt"
	"sync"

	"skillchain/internal/auth/models"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in memory for tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[domain.Address]*models.Profile
}

func New() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[domain.Address]*models.Profile)}
}

func (s *InMemoryStore) Save(_ context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.Address] = &cp
	return nil
}

func (s *InMemoryStore) FindByAddress(_ context.Context, address domain.Address) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[address]
	if !ok {
		return nil, fmt.Errorf("profile not found: %w", sentinel.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}
