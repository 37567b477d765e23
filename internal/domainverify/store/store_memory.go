package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"skillchain/internal/domainverify/models"
	"skillchain/pkg/platform/sentinel"
)

type attemptKey struct {
	domain string
	issuer string
}

func keyOf(domain, issuer string) attemptKey {
	return attemptKey{domain: strings.ToLower(domain), issuer: strings.ToLower(issuer)}
}

// InMemoryStore keeps verification attempts in memory.
type InMemoryStore struct {
	mu       sync.Mutex
	attempts map[attemptKey]*models.Attempt
}

func New() *InMemoryStore {
	return &InMemoryStore{attempts: make(map[attemptKey]*models.Attempt)}
}

func (s *InMemoryStore) Get(_ context.Context, domain, issuer string) (*models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[keyOf(domain, issuer)]
	if !ok {
		return nil, fmt.Errorf("verification attempt: %w", sentinel.ErrNotFound)
	}
	return cloneAttempt(a), nil
}

// RecordAttempt stamps lastAttempt and bumps the counter. lastSuccess only
// moves on success.
func (s *InMemoryStore) RecordAttempt(_ context.Context, domain, issuer string, at time.Time, success bool) (*models.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyOf(domain, issuer)
	a, ok := s.attempts[k]
	if !ok {
		a = &models.Attempt{Domain: k.domain, IssuerAddress: k.issuer}
		s.attempts[k] = a
	}
	a.LastAttempt = at
	a.Attempts++
	if success {
		t := at
		a.LastSuccess = &t
	}
	return cloneAttempt(a), nil
}

func cloneAttempt(a *models.Attempt) *models.Attempt {
	cp := *a
	if a.LastSuccess != nil {
		t := *a.LastSuccess
		cp.LastSuccess = &t
	}
	return &cp
}
