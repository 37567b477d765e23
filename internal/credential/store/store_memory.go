package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"skillchain/internal/credential/models"
	"skillchain/pkg/domain"
)

// InMemoryStore keeps cataloged credentials grouped by holder.
type InMemoryStore struct {
	mu       sync.RWMutex
	byHolder map[domain.Address]map[string]*models.Credential
}

func New() *InMemoryStore {
	return &InMemoryStore{byHolder: make(map[domain.Address]map[string]*models.Credential)}
}

func (s *InMemoryStore) Save(_ context.Context, cred *models.Credential) error {
	if cred == nil || cred.ID == "" {
		return fmt.Errorf("credential id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	creds, ok := s.byHolder[cred.Holder]
	if !ok {
		creds = make(map[string]*models.Credential)
		s.byHolder[cred.Holder] = creds
	}
	cp := *cred
	creds[cred.ID] = &cp
	return nil
}

// ListByHolder returns the holder's credentials ordered by id. An unknown
// holder has no credentials.
func (s *InMemoryStore) ListByHolder(_ context.Context, holder domain.Address) ([]*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds := s.byHolder[holder]
	out := make([]*models.Credential, 0, len(creds))
	for _, c := range creds {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
