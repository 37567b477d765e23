// Package domain provides typed identifiers shared across modules so that a
// wallet address, a share id and a ledger credential id cannot be mixed up.
package domain

import (
	"errors"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	dErrors "skillchain/pkg/domain-errors"
)

// Address is a chain account address in lowercase 0x-prefixed hex.
type Address string

// ShareID identifies a share link, e.g. "share_lq2x9k_8f3ja1".
type ShareID string

// CredentialID is the ledger's credential identifier.
type CredentialID uint64

var shareIDPattern = regexp.MustCompile(`^share_[a-z0-9]+_[a-z0-9]+$`)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return "", dErrors.New(dErrors.CodeValidation, "VALIDATION_ERROR", "Invalid Ethereum address")
	}
	return Address(strings.ToLower(s)), nil
}

func ParseShareID(s string) (ShareID, error) {
	if !shareIDPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeValidation, "VALIDATION_ERROR", "Invalid share ID format")
	}
	return ShareID(s), nil
}

// ParseCredentialID parses a decimal credential id. Ids that are valid
// uint256 values but exceed uint64 are never issued by the registry and are
// reported as not found.
func ParseCredentialID(s string) (CredentialID, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return CredentialID(id), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		if n, ok := new(big.Int).SetString(s, 10); ok && n.BitLen() <= 256 {
			return 0, dErrors.New(dErrors.CodeNotFound, "CREDENTIAL_NOT_FOUND", "Credential not found on blockchain")
		}
	}
	return 0, dErrors.New(dErrors.CodeValidation, "VALIDATION_ERROR", "Credential ID must be numeric")
}

// AddressFrom normalizes an address already decoded by go-ethereum.
func AddressFrom(a common.Address) Address {
	return Address(strings.ToLower(a.Hex()))
}

func (a Address) String() string         { return string(a) }
func (a Address) Common() common.Address { return common.HexToAddress(string(a)) }
func (a Address) IsZero() bool           { return a == "" || a.Common() == (common.Address{}) }

// EqualFold compares two addresses regardless of checksum casing.
func (a Address) EqualFold(other string) bool {
	return strings.EqualFold(string(a), strings.TrimSpace(other))
}

func (id ShareID) String() string      { return string(id) }
func (id CredentialID) String() string { return strconv.FormatUint(uint64(id), 10) }
