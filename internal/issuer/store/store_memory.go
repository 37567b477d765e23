package store

import (
	"context"
	"fmt"
	"sync"

	"skillchain/internal/issuer/models"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/sentinel"
)

// InMemoryStore keeps issuers in memory for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	issuers map[domain.Address]*models.Issuer
}

func New() *InMemoryStore {
	return &InMemoryStore{issuers: make(map[domain.Address]*models.Issuer)}
}

func (s *InMemoryStore) Save(_ context.Context, issuer *models.Issuer) error {
	if issuer == nil {
		return fmt.Errorf("issuer is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *issuer
	s.issuers[issuer.Address] = &cp
	return nil
}

func (s *InMemoryStore) FindByAddress(_ context.Context, address domain.Address) (*models.Issuer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issuer, ok := s.issuers[address]
	if !ok {
		return nil, fmt.Errorf("issuer not found: %w", sentinel.ErrNotFound)
	}
	cp := *issuer
	return &cp, nil
}

// FindByAddresses returns the issuers that exist among addresses.
func (s *InMemoryStore) FindByAddresses(_ context.Context, addresses []domain.Address) (map[domain.Address]*models.Issuer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.Address]*models.Issuer, len(addresses))
	for _, a := range addresses {
		if issuer, ok := s.issuers[a]; ok {
			cp := *issuer
			out[a] = &cp
		}
	}
	return out, nil
}

// UpsertVerificationStatus merges the status into the issuer row, creating it
// when missing. The organization name is left untouched.
func (s *InMemoryStore) UpsertVerificationStatus(_ context.Context, status models.VerificationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	issuer, ok := s.issuers[status.Address]
	if !ok {
		issuer = &models.Issuer{Address: status.Address}
		s.issuers[status.Address] = issuer
	}
	issuer.Domain = status.Domain
	issuer.IsVerified = status.IsVerified
	if status.IsVerified {
		verifiedAt := status.VerifiedAt
		issuer.VerifiedAt = &verifiedAt
	} else {
		issuer.VerifiedAt = nil
	}
	issuer.LastUpdated = status.UpdatedAt
	return nil
}
