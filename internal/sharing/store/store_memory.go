package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skillchain/internal/sharing/models"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/sentinel"
)

// InMemoryStore keeps share links in memory. Access recording is atomic
// under the store mutex.
type InMemoryStore struct {
	mu    sync.Mutex
	links map[domain.ShareID]*models.ShareLink
}

func New() *InMemoryStore {
	return &InMemoryStore{links: make(map[domain.ShareID]*models.ShareLink)}
}

func (s *InMemoryStore) Save(_ context.Context, link *models.ShareLink) error {
	if link == nil || link.ShareID == "" {
		return fmt.Errorf("share id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.ShareID] = clone(link)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ShareID) (*models.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok {
		return nil, fmt.Errorf("share link %s: %w", id, sentinel.ErrNotFound)
	}
	return clone(link), nil
}

// RecordAccess increments the access count if the link is still active at
// now. It returns sentinel.ErrInvalidState when the link is no longer
// active and leaves it unchanged.
func (s *InMemoryStore) RecordAccess(_ context.Context, id domain.ShareID, now time.Time) (*models.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok {
		return nil, fmt.Errorf("share link %s: %w", id, sentinel.ErrNotFound)
	}
	if link.StateAt(now) != models.StateActive {
		return nil, fmt.Errorf("share link %s: %w", id, sentinel.ErrInvalidState)
	}
	link.AccessCount++
	accessed := now
	link.LastAccessedAt = &accessed
	return clone(link), nil
}

func clone(link *models.ShareLink) *models.ShareLink {
	cp := *link
	cp.CredentialIDs = append([]string(nil), link.CredentialIDs...)
	if link.ExpiryDate != nil {
		t := *link.ExpiryDate
		cp.ExpiryDate = &t
	}
	if link.LastAccessedAt != nil {
		t := *link.LastAccessedAt
		cp.LastAccessedAt = &t
	}
	return &cp
}
