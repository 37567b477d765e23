package models

import (
	"strings"
	"time"

	"skillchain/pkg/platform/validation"
)

// WellKnownPurpose and WellKnownVersion identify the descriptor an issuer
// publishes to prove domain control.
const (
	WellKnownPurpose = "SkillChain domain verification"
	WellKnownVersion = "1.0"
	WellKnownPath    = "/.well-known/skillchain-credentials"
)

// Attempt tracks verification attempts for one (domain, issuer) pair.
// Domain and IssuerAddress are stored lowercased.
type Attempt struct {
	Domain        string
	IssuerAddress string
	LastAttempt   time.Time
	LastSuccess   *time.Time
	Attempts      int
}

type VerifyDomainRequest struct {
	Domain        string `json:"domain" validate:"required,fqdn"`
	IssuerAddress string `json:"issuerAddress" validate:"required,eth_addr"`
}

func (r *VerifyDomainRequest) Normalize() {
	r.Domain = strings.TrimSpace(r.Domain)
	r.IssuerAddress = strings.TrimSpace(r.IssuerAddress)
}

func (r *VerifyDomainRequest) Validate() error {
	return validation.Validate(r)
}

type GenerateWellKnownRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}

func (r *GenerateWellKnownRequest) Normalize() {
	r.Domain = strings.TrimSpace(r.Domain)
}

func (r *GenerateWellKnownRequest) Validate() error {
	return validation.Validate(r)
}

// VerificationResult is a confirmed on-chain domain verification.
type VerificationResult struct {
	TransactionHash string
	Domain          string
	IssuerAddress   string
}

// WellKnownContent is the JSON document served at WellKnownPath.
type WellKnownContent struct {
	Domain    string `json:"domain"`
	Issuer    string `json:"issuer"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
	Purpose   string `json:"purpose"`
}

type WellKnown struct {
	Content      WellKnownContent `json:"content"`
	Instructions string           `json:"instructions"`
}
