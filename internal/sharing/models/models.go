package models

import (
	"time"

	credentialModels "skillchain/internal/credential/models"
	"skillchain/pkg/domain"
)

// State is the access state of a share link.
type State string

const (
	StateActive             State = "ACTIVE"
	StateNotFound           State = "NOT_FOUND"
	StateRevoked            State = "REVOKED"
	StateExpired            State = "EXPIRED"
	StateAccessLimitReached State = "ACCESS_LIMIT_REACHED"
)

// ShareLink grants read access to a subset of an owner's credentials.
// MaxAccessCount zero means unlimited.
type ShareLink struct {
	ShareID        domain.ShareID
	Owner          domain.Address
	CredentialIDs  []string
	Description    string
	CreatedAt      time.Time
	ExpiryDate     *time.Time
	IsActive       bool
	AccessCount    int
	MaxAccessCount int
	LastAccessedAt *time.Time
}

// StateAt evaluates the link at now. The first matching state wins:
// not found, revoked, expired, access limit reached, active.
func (l *ShareLink) StateAt(now time.Time) State {
	switch {
	case l == nil:
		return StateNotFound
	case !l.IsActive:
		return StateRevoked
	case l.ExpiryDate != nil && !l.ExpiryDate.After(now):
		return StateExpired
	case l.MaxAccessCount > 0 && l.AccessCount >= l.MaxAccessCount:
		return StateAccessLimitReached
	default:
		return StateActive
	}
}

// Includes reports whether the link shares the credential with localID.
func (l *ShareLink) Includes(localID string) bool {
	for _, id := range l.CredentialIDs {
		if id == localID {
			return true
		}
	}
	return false
}

// AccessResult is a granted access: the shared credentials and the link as
// it stands after the access was recorded.
type AccessResult struct {
	Link        *ShareLink
	Credentials []*credentialModels.Credential
}
