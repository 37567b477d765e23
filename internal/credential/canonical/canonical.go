// Package canonical builds the exact string whose keccak-256 hash is stored
// on the ledger for a credential, and hashes it.
//
// The form is a compact JSON object with members in a fixed order:
//
//	{"skillName":…,"skillLevel":…,"description":…,"expiryDate":…,"notes":…,"issuedBy":…,"issuedAt":…,"certificateUrl":…}
//
// Absent inputs are omitted, falsy expiryDate and notes become "", a falsy
// certificateUrl becomes null and issuedAt is ISO-8601 UTC with milliseconds.
// Any byte of difference changes the hash, so the encoder mirrors
// JSON.stringify rather than encoding/json.
package canonical

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

var ErrNotObject = errors.New("credential data must be a JSON object")

// CredentialData holds the descriptive fields a canonical form is built from.
// Keys are matched case-sensitively.
type CredentialData struct {
	CredentialName   Field
	SkillLevel       Field
	Description      Field
	ExpiryDate       Field
	AdditionalNotes  Field
	Notes            Field
	OrganizationName Field
	IssuedDate       Field
	CertificateURL   Field
}

// Parse reads credential data from a JSON object.
func Parse(raw json.RawMessage) (*CredentialData, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil || members == nil {
		return nil, ErrNotObject
	}
	return &CredentialData{
		CredentialName:   NewField(members["credentialName"]),
		SkillLevel:       NewField(members["skillLevel"]),
		Description:      NewField(members["description"]),
		ExpiryDate:       NewField(members["expiryDate"]),
		AdditionalNotes:  NewField(members["additionalNotes"]),
		Notes:            NewField(members["notes"]),
		OrganizationName: NewField(members["organizationName"]),
		IssuedDate:       NewField(members["issuedDate"]),
		CertificateURL:   NewField(members["certificateUrl"]),
	}, nil
}

// Form is a canonical string together with the values that went into it.
type Form struct {
	Canonical string
	IssuedAt  string
	Hash      common.Hash
}

type member struct {
	key   string
	value Field
}

// Build produces the canonical form of d.
func Build(d *CredentialData) (*Form, error) {
	issuedAt, err := IssuedAt(d.IssuedDate)
	if err != nil {
		return nil, err
	}
	empty := StringField("")

	members := []member{
		{"skillName", d.CredentialName},
		{"skillLevel", d.SkillLevel},
		{"description", d.Description},
		{"expiryDate", d.ExpiryDate.Or(empty)},
		{"notes", d.AdditionalNotes.Or(empty)},
		{"issuedBy", d.OrganizationName},
		{"issuedAt", StringField(issuedAt)},
		{"certificateUrl", d.CertificateURL.Or(Null)},
	}

	buf := make([]byte, 0, 256)
	buf = append(buf, '{')
	first := true
	for _, m := range members {
		if !m.value.Present() {
			continue
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		buf = appendString(buf, m.key)
		buf = append(buf, ':')
		if buf, err = appendValue(buf, m.value.Raw()); err != nil {
			return nil, fmt.Errorf("encode %s: %w", m.key, err)
		}
	}
	buf = append(buf, '}')

	canonical := string(buf)
	return &Form{Canonical: canonical, IssuedAt: issuedAt, Hash: Hash(canonical)}, nil
}

// Hash returns keccak-256 of the UTF-8 bytes of s.
func Hash(s string) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))
	var out common.Hash
	h.Sum(out[:0])
	return out
}
