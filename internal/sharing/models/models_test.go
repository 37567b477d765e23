package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialModels "skillchain/internal/credential/models"
)

func TestStateAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		link *ShareLink
		want State
	}{
		{"missing link", nil, StateNotFound},
		{"active without limits", &ShareLink{IsActive: true}, StateActive},
		{"revoked wins over expired", &ShareLink{IsActive: false, ExpiryDate: &past}, StateRevoked},
		{"expired wins over limit", &ShareLink{IsActive: true, ExpiryDate: &past, AccessCount: 5, MaxAccessCount: 5}, StateExpired},
		{"expiry equal to now is expired", &ShareLink{IsActive: true, ExpiryDate: &now}, StateExpired},
		{"future expiry is active", &ShareLink{IsActive: true, ExpiryDate: &future}, StateActive},
		{"limit reached", &ShareLink{IsActive: true, AccessCount: 3, MaxAccessCount: 3}, StateAccessLimitReached},
		{"below limit", &ShareLink{IsActive: true, AccessCount: 2, MaxAccessCount: 3}, StateActive},
		{"zero limit is unlimited", &ShareLink{IsActive: true, AccessCount: 100}, StateActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.StateAt(now))
		})
	}
}

func TestNewSharedCredentialsResponse(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	res := &AccessResult{
		Link: &ShareLink{
			ShareID:       "share_abc_123",
			Owner:         "0xa11ce",
			CredentialIDs: []string{"c1"},
			Description:   "for recruiters",
			CreatedAt:     created,
			IsActive:      true,
			AccessCount:   1,
		},
		Credentials: []*credentialModels.Credential{{ID: "c1", OrganizationName: "Acme"}},
	}

	body, err := json.Marshal(NewSharedCredentialsResponse(res, created))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	info := got["shareInfo"].(map[string]any)
	assert.Equal(t, "share_abc_123", info["shareId"])
	assert.Equal(t, "2025-01-01T00:00:00.000Z", info["createdAt"])
	assert.Nil(t, info["expiryDate"])
	assert.Nil(t, info["maxAccessCount"])
	assert.Equal(t, float64(1), info["accessCount"])
	assert.Equal(t, false, info["isExpired"])
	assert.Equal(t, float64(1), info["totalCredentials"])
	assert.Len(t, got["credentials"], 1)
}
