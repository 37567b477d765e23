package models

import (
	"strings"
	"time"

	"skillchain/pkg/domain"
	"skillchain/pkg/platform/validation"
)

// Profile is the optional account record for a wallet address.
type Profile struct {
	Address   domain.Address
	Email     string
	CreatedAt time.Time
}

// VerifyWalletRequest is the signed login challenge submitted by a wallet.
type VerifyWalletRequest struct {
	Address   string `json:"address" validate:"required,eth_addr"`
	Message   string `json:"message" validate:"required,min=10,max=500"`
	Signature string `json:"signature" validate:"required,min=100,max=200"`
}

func (r *VerifyWalletRequest) Normalize() {
	r.Address = strings.TrimSpace(r.Address)
	r.Signature = strings.TrimSpace(r.Signature)
}

func (r *VerifyWalletRequest) Validate() error {
	return validation.Validate(r)
}

// LoginResult is returned by a successful wallet login.
type LoginResult struct {
	Token      string
	Address    domain.Address
	Email      string
	HasProfile bool
}
