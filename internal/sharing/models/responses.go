package models

import (
	"time"

	credentialModels "skillchain/internal/credential/models"
)

type ShareInfoResponse struct {
	ShareID          string  `json:"shareId"`
	Owner            string  `json:"owner"`
	CreatedAt        string  `json:"createdAt"`
	ExpiryDate       *string `json:"expiryDate"`
	Description      string  `json:"description"`
	AccessCount      int     `json:"accessCount"`
	MaxAccessCount   *int    `json:"maxAccessCount"`
	IsExpired        bool    `json:"isExpired"`
	TotalCredentials int     `json:"totalCredentials"`
}

// SharedCredentialsResponse is the body of both share access endpoints.
type SharedCredentialsResponse struct {
	Success     bool                                  `json:"success"`
	Credentials []credentialModels.CredentialResponse `json:"credentials"`
	ShareInfo   ShareInfoResponse                     `json:"shareInfo"`
	Timestamp   string                                `json:"timestamp"`
}

func NewSharedCredentialsResponse(res *AccessResult, now time.Time) *SharedCredentialsResponse {
	creds := make([]credentialModels.CredentialResponse, len(res.Credentials))
	for i, c := range res.Credentials {
		creds[i] = credentialModels.NewCredentialResponse(c)
	}

	link := res.Link
	info := ShareInfoResponse{
		ShareID:          link.ShareID.String(),
		Owner:            link.Owner.String(),
		CreatedAt:        credentialModels.Timestamp(link.CreatedAt),
		Description:      link.Description,
		AccessCount:      link.AccessCount,
		TotalCredentials: len(creds),
	}
	if link.ExpiryDate != nil {
		s := credentialModels.Timestamp(*link.ExpiryDate)
		info.ExpiryDate = &s
	}
	if link.MaxAccessCount > 0 {
		limit := link.MaxAccessCount
		info.MaxAccessCount = &limit
	}

	return &SharedCredentialsResponse{
		Success:     true,
		Credentials: creds,
		ShareInfo:   info,
		Timestamp:   credentialModels.Timestamp(now),
	}
}
