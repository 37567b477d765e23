package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "skillchain/pkg/domain-errors"
)

type walletRequest struct {
	Address   string `json:"address" validate:"required,eth_addr"`
	Message   string `json:"message" validate:"required,min=10,max=500"`
	Signature string `json:"signature" validate:"required,min=100,max=200"`
}

type domainRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}

type batchRequest struct {
	CredentialIDs []string `json:"credentialIds" validate:"min=1,max=10,dive,numeric"`
}

func TestValidate(t *testing.T) {
	valid := walletRequest{
		Address:   "0x52908400098527886E0F7030069857D2E4169EE7",
		Message:   "Sign this message to log in to SkillChain: 1700000000000",
		Signature: "0x" + strings.Repeat("ab", 65),
	}

	t.Run("accepts well-formed request", func(t *testing.T) {
		require.NoError(t, Validate(valid))
	})

	t.Run("reports JSON field names", func(t *testing.T) {
		bad := valid
		bad.Address = "not-an-address"
		err := Validate(bad)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "VALIDATION_ERROR", dErrors.ReasonOf(err))
		assert.Equal(t, "address must be a valid Ethereum address", err.Error())
	})

	t.Run("enforces length bounds", func(t *testing.T) {
		bad := valid
		bad.Message = "too short"
		err := Validate(bad)
		require.Error(t, err)
		assert.Equal(t, "message must have at least 10 characters", err.Error())
	})

	t.Run("fqdn", func(t *testing.T) {
		require.NoError(t, Validate(domainRequest{Domain: "acme.example.com"}))
		err := Validate(domainRequest{Domain: "not a domain"})
		require.Error(t, err)
		assert.Equal(t, "domain must be a valid domain", err.Error())
	})

	t.Run("batch bounds and numeric items", func(t *testing.T) {
		require.NoError(t, Validate(batchRequest{CredentialIDs: []string{"1", "2"}}))

		err := Validate(batchRequest{CredentialIDs: []string{}})
		require.Error(t, err)
		assert.Equal(t, "credentialIds must have at least 1 items", err.Error())

		err = Validate(batchRequest{CredentialIDs: make([]string, 11)})
		require.Error(t, err)

		err = Validate(batchRequest{CredentialIDs: []string{"1", "abc"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be numeric")
	})
}
