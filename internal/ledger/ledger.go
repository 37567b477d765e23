// Package ledger reads and writes the credential registry contract.
//
// Reads are pure contract calls. The only write is the domain verification
// flag, submitted with the service's signing key and confirmed by polling for
// the receipt.
package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"skillchain/pkg/domain"
)

// CredentialRecord is the on-chain record for a credential id. A zero Issuer
// means the id does not exist; the client reports that as ErrCredentialNotFound.
type CredentialRecord struct {
	Issuer   domain.Address
	Holder   domain.Address
	DataHash common.Hash
	IssuedAt uint64
	Revoked  bool
}

// IssuerProfile is the issuer metadata stored on the ledger.
type IssuerProfile struct {
	Domain           string `json:"domain"`
	IsVerified       bool   `json:"isVerified"`
	VerifiedAt       uint64 `json:"verifiedAt"`
	OrganizationName string `json:"organizationName"`
	Description      string `json:"description"`
}

// Receipt summarizes a mined transaction.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Status      uint64
}

// Reader is the read side of the registry contract.
type Reader interface {
	GetCredential(ctx context.Context, id domain.CredentialID) (*CredentialRecord, error)
	// VerifyCredentialData asks the contract whether data hashes to the
	// stored dataHash. data is passed through byte for byte.
	VerifyCredentialData(ctx context.Context, id domain.CredentialID, data string) (bool, error)
	GetIssuerProfile(ctx context.Context, issuer domain.Address) (*IssuerProfile, error)
}

// Writer submits state changes. SetDomainVerified returns as soon as the
// transaction is accepted by the node; WaitConfirmed blocks until it is mined
// or ctx ends.
type Writer interface {
	SetDomainVerified(ctx context.Context, issuer domain.Address, verified bool) (common.Hash, error)
	WaitConfirmed(ctx context.Context, tx common.Hash) (*Receipt, error)
}
