package models

import (
	"encoding/json"
	"strings"
	"time"

	"skillchain/internal/ledger"
)

// VerificationMethod tags responses produced by this API as opposed to a
// client-side chain read.
const VerificationMethod = "API"

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t as ISO-8601 UTC with milliseconds.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

type IssuerProfileResponse struct {
	Domain           string `json:"domain"`
	IsVerified       bool   `json:"isVerified"`
	OrganizationName string `json:"organizationName"`
	Description      string `json:"description"`
}

type LedgerCredentialResponse struct {
	Issuer   string `json:"issuer"`
	Holder   string `json:"holder"`
	DataHash string `json:"dataHash"`
	IssuedAt uint64 `json:"issuedAt"`
	Revoked  bool   `json:"revoked"`
}

// VerifiedCredentialResponse is the body of GET /credentials/verify-blockchain/{credentialId}.
type VerifiedCredentialResponse struct {
	Success            bool                  `json:"success"`
	Credential         CredentialWithProfile `json:"credential"`
	VerificationMethod string                `json:"verificationMethod"`
	Timestamp          string                `json:"timestamp"`
}

// issuerProfile is null when the profile could not be read.
type CredentialWithProfile struct {
	LedgerCredentialResponse
	IssuerProfile *IssuerProfileResponse `json:"issuerProfile"`
}

func NewVerifiedCredentialResponse(v *VerifiedCredential, now time.Time) *VerifiedCredentialResponse {
	cred := CredentialWithProfile{LedgerCredentialResponse: toLedgerCredential(v.Record)}
	if p := v.IssuerProfile; p != nil {
		cred.IssuerProfile = &IssuerProfileResponse{
			Domain:           p.Domain,
			IsVerified:       p.IsVerified,
			OrganizationName: p.OrganizationName,
			Description:      p.Description,
		}
	}
	return &VerifiedCredentialResponse{
		Success:            true,
		Credential:         cred,
		VerificationMethod: VerificationMethod,
		Timestamp:          Timestamp(now),
	}
}

// Addresses are rendered with their checksum casing, as the ledger returns them.
func toLedgerCredential(r *ledger.CredentialRecord) LedgerCredentialResponse {
	return LedgerCredentialResponse{
		Issuer:   r.Issuer.Common().Hex(),
		Holder:   r.Holder.Common().Hex(),
		DataHash: r.DataHash.Hex(),
		IssuedAt: r.IssuedAt,
		Revoked:  r.Revoked,
	}
}

type BatchItemResponse struct {
	CredentialID json.Number               `json:"credentialId"`
	Success      bool                      `json:"success"`
	Credential   *LedgerCredentialResponse `json:"credential,omitempty"`
	Error        string                    `json:"error,omitempty"`
}

// VerifyBatchResponse is the body of POST /credentials/verify-batch.
type VerifyBatchResponse struct {
	Success            bool                `json:"success"`
	Results            []BatchItemResponse `json:"results"`
	TotalVerified      int                 `json:"totalVerified"`
	TotalRequested     int                 `json:"totalRequested"`
	VerificationMethod string              `json:"verificationMethod"`
	Timestamp          string              `json:"timestamp"`
}

func NewVerifyBatchResponse(res *BatchResult, now time.Time) *VerifyBatchResponse {
	results := make([]BatchItemResponse, len(res.Items))
	for i, item := range res.Items {
		results[i] = BatchItemResponse{
			CredentialID: item.RawID.Integer(),
			Success:      item.Success(),
			Error:        item.Error,
		}
		if item.Credential != nil {
			c := toLedgerCredential(item.Credential)
			results[i].Credential = &c
		}
	}
	return &VerifyBatchResponse{
		Success:            true,
		Results:            results,
		TotalVerified:      res.TotalVerified,
		TotalRequested:     len(res.Items),
		VerificationMethod: VerificationMethod,
		Timestamp:          Timestamp(now),
	}
}

// DebugInfo echoes the inputs that shaped the canonical form. Absent fields
// are omitted.
type DebugInfo struct {
	ReceivedAdditionalNotes json.RawMessage `json:"receivedAdditionalNotes,omitempty"`
	UsedNotes               json.RawMessage `json:"usedNotes,omitempty"`
	ReceivedIssuedDate      json.RawMessage `json:"receivedIssuedDate,omitempty"`
	UsedIssuedAt            string          `json:"usedIssuedAt"`
	CredentialName          json.RawMessage `json:"credentialName,omitempty"`
	Description             json.RawMessage `json:"description,omitempty"`
}

// VerifyDataResponse is the body of POST /credentials/verify-credential-data/{credentialId}.
type VerifyDataResponse struct {
	Success            bool      `json:"success"`
	IsValid            bool      `json:"isValid"`
	CredentialID       uint64    `json:"credentialId"`
	VerificationMethod string    `json:"verificationMethod"`
	OriginalDataFormat string    `json:"originalDataFormat"`
	LocalDataHash      string    `json:"localDataHash"`
	DebugInfo          DebugInfo `json:"debugInfo"`
	Timestamp          string    `json:"timestamp"`
}

func NewVerifyDataResponse(v *DataVerification, now time.Time) *VerifyDataResponse {
	return &VerifyDataResponse{
		Success:            true,
		IsValid:            v.IsValid,
		CredentialID:       uint64(v.ID),
		VerificationMethod: VerificationMethod,
		OriginalDataFormat: v.Form.Canonical,
		LocalDataHash:      v.Form.Hash.Hex(),
		DebugInfo: DebugInfo{
			ReceivedAdditionalNotes: v.Data.AdditionalNotes.Raw(),
			UsedNotes:               v.Data.Notes.Raw(),
			ReceivedIssuedDate:      v.Data.IssuedDate.Raw(),
			UsedIssuedAt:            v.Form.IssuedAt,
			CredentialName:          v.Data.CredentialName.Raw(),
			Description:             v.Data.Description.Raw(),
		},
		Timestamp: Timestamp(now),
	}
}

// ReconcileResponse is the body of POST /credentials/reconcile/{credentialId}.
type ReconcileResponse struct {
	Success         bool   `json:"success"`
	CredentialID    uint64 `json:"credentialId"`
	HashMatches     bool   `json:"hashMatches"`
	OnChainDataHash string `json:"onChainDataHash"`
	LocalDataHash   string `json:"localDataHash"`
	Revoked         bool   `json:"revoked"`
	Timestamp       string `json:"timestamp"`
}

func NewReconcileResponse(r *Reconciliation, now time.Time) *ReconcileResponse {
	return &ReconcileResponse{
		Success:         true,
		CredentialID:    uint64(r.ID),
		HashMatches:     r.HashMatches,
		OnChainDataHash: r.OnChainDataHash,
		LocalDataHash:   r.LocalDataHash,
		Revoked:         r.Revoked,
		Timestamp:       Timestamp(now),
	}
}

// CredentialResponse is a catalog entry as shown to share viewers.
type CredentialResponse struct {
	ID               string  `json:"id"`
	CredentialID     *uint64 `json:"credentialId"`
	CredentialName   string  `json:"credentialName"`
	Description      string  `json:"description"`
	OrganizationName string  `json:"organizationName"`
	Holder           string  `json:"holder"`
	Issuer           string  `json:"issuer"`
	IssuedDate       *string `json:"issuedDate"`
	CanExpire        bool    `json:"canExpire"`
	ExpiryDate       *string `json:"expiryDate"`
	SkillLevel       string  `json:"skillLevel"`
	Status           bool    `json:"status"`
	CertificateURL   string  `json:"certificateUrl"`
	TxHash           string  `json:"txHash"`
	AdditionalNotes  string  `json:"additionalNotes"`
}

func NewCredentialResponse(c *Credential) CredentialResponse {
	resp := CredentialResponse{
		ID:               c.ID,
		CredentialName:   c.CredentialName,
		Description:      c.Description,
		OrganizationName: c.OrganizationName,
		Holder:           strings.ToLower(c.Holder.String()),
		Issuer:           c.IssuerRef.String(),
		CanExpire:        c.CanExpire,
		SkillLevel:       c.SkillLevel,
		Status:           c.Status,
		CertificateURL:   c.CertificateURL,
		TxHash:           c.TxHash,
		AdditionalNotes:  c.AdditionalNotes,
	}
	if c.OnChainID != nil {
		id := uint64(*c.OnChainID)
		resp.CredentialID = &id
	}
	if !c.IssuedDate.IsZero() {
		s := Timestamp(c.IssuedDate)
		resp.IssuedDate = &s
	}
	if c.ExpiryDate != nil {
		s := Timestamp(*c.ExpiryDate)
		resp.ExpiryDate = &s
	}
	return resp
}
