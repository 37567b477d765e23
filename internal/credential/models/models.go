package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"skillchain/internal/credential/canonical"
	"skillchain/internal/ledger"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/platform/validation"
)

// Credential is a locally cataloged credential. OrganizationName is not
// stored on the row; it is joined from the issuer table when listing.
type Credential struct {
	ID               string
	OnChainID        *domain.CredentialID
	CredentialName   string
	Description      string
	OrganizationName string
	Holder           domain.Address
	IssuerRef        domain.Address
	IssuedDate       time.Time
	CanExpire        bool
	ExpiryDate       *time.Time
	SkillLevel       string
	Status           bool
	CertificateURL   string
	TxHash           string
	AdditionalNotes  string
}

// RawID is a credential id as sent by clients: a JSON number or a string.
// Any other JSON type decodes to an empty id that fails validation.
type RawID string

func (id *RawID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RawID(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*id = RawID(data)
	default:
		*id = ""
	}
	return nil
}

// CredentialID parses the id strictly as an unsigned integer.
func (id RawID) CredentialID() (domain.CredentialID, error) {
	return domain.ParseCredentialID(string(id))
}

// VerifyBatchRequest is the body of POST /credentials/verify-batch.
type VerifyBatchRequest struct {
	CredentialIDs []RawID `json:"credentialIds" validate:"required,min=1,max=10,dive,numeric"`
}

func (r *VerifyBatchRequest) Normalize() {
	for i, id := range r.CredentialIDs {
		r.CredentialIDs[i] = RawID(strings.TrimSpace(string(id)))
	}
}

func (r *VerifyBatchRequest) Validate() error {
	return validation.Validate(r)
}

// CredentialDataRequest carries the descriptive fields to check against the
// ledger. Data is kept raw so the canonical form sees the exact JSON values.
type CredentialDataRequest struct {
	Data json.RawMessage `json:"credentialData"`

	parsed *canonical.CredentialData
}

func (r *CredentialDataRequest) Validate() error {
	if len(bytes.TrimSpace(r.Data)) == 0 {
		return dErrors.New(dErrors.CodeValidation, "VALIDATION_ERROR", "credentialData is required")
	}
	parsed, err := canonical.Parse(r.Data)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "VALIDATION_ERROR", "credentialData must be an object")
	}
	r.parsed = parsed
	return nil
}

// Parsed returns the fields decoded by Validate.
func (r *CredentialDataRequest) Parsed() *canonical.CredentialData {
	return r.parsed
}

// VerifiedCredential is a ledger record enriched with the issuer profile.
// IssuerProfile is nil when the profile could not be read.
type VerifiedCredential struct {
	ID            domain.CredentialID
	Record        *ledger.CredentialRecord
	IssuerProfile *ledger.IssuerProfile
}

// BatchItem is the outcome for one id of a batch. Exactly one of Credential
// or Error is set.
type BatchItem struct {
	RawID      RawID
	Credential *ledger.CredentialRecord
	Error      string
}

func (i BatchItem) Success() bool { return i.Credential != nil }

// BatchResult keeps items in request order.
type BatchResult struct {
	Items         []BatchItem
	TotalVerified int
}

// DataVerification is the result of asking the ledger to check credential data.
type DataVerification struct {
	ID      domain.CredentialID
	IsValid bool
	Form    *canonical.Form
	Data    *canonical.CredentialData
}

// Reconciliation compares a locally computed hash with the stored one.
type Reconciliation struct {
	ID              domain.CredentialID
	HashMatches     bool
	OnChainDataHash string
	LocalDataHash   string
	Revoked         bool
}

// Integer renders the id the way clients expect it echoed back: the integer
// part of the numeric string, without sign noise or leading zeros.
func (id RawID) Integer() json.Number {
	s := strings.TrimPrefix(string(id), "+")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	if strings.Trim(s, "0123456789") != "" {
		return "0"
	}
	if neg {
		s = "-" + s
	}
	return json.Number(s)
}
