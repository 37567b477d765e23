package models

import (
	"time"

	"skillchain/pkg/domain"
)

// UnknownIssuer is shown when a credential's issuer has no organization name.
const UnknownIssuer = "Unknown Issuer"

// Issuer is the local issuer row. Verification fields mirror the ledger's
// domain flag after a confirmed domain verification.
type Issuer struct {
	Address          domain.Address
	OrganizationName string
	Domain           string
	IsVerified       bool
	VerifiedAt       *time.Time
	LastUpdated      time.Time
}

// DisplayName returns the organization name or UnknownIssuer.
func (i *Issuer) DisplayName() string {
	if i == nil || i.OrganizationName == "" {
		return UnknownIssuer
	}
	return i.OrganizationName
}

// VerificationStatus is written after the ledger confirms a domain.
type VerificationStatus struct {
	Address    domain.Address
	Domain     string
	IsVerified bool
	VerifiedAt time.Time
	UpdatedAt  time.Time
}
