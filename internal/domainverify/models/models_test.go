package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "skillchain/pkg/domain-errors"
)

func TestVerifyDomainRequest(t *testing.T) {
	valid := VerifyDomainRequest{Domain: " acme.io ", IssuerAddress: "0x52908400098527886E0F7030069857D2E4169EE7"}
	valid.Normalize()
	assert.Equal(t, "acme.io", valid.Domain)
	assert.NoError(t, valid.Validate())

	for name, req := range map[string]VerifyDomainRequest{
		"not a domain":    {Domain: "localhost", IssuerAddress: valid.IssuerAddress},
		"url not domain":  {Domain: "https://acme.io", IssuerAddress: valid.IssuerAddress},
		"bad address":     {Domain: "acme.io", IssuerAddress: "0x1234"},
		"missing address": {Domain: "acme.io"},
	} {
		err := req.Validate()
		assert.Error(t, err, name)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), name)
	}
}

func TestGenerateWellKnownRequest(t *testing.T) {
	assert.NoError(t, (&GenerateWellKnownRequest{Domain: "skills.acme.io"}).Validate())
	assert.Error(t, (&GenerateWellKnownRequest{Domain: "acme"}).Validate())
}
