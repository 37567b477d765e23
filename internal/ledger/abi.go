package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract methods used by the service.
const (
	methodCredentials          = "credentials"
	methodVerifyCredentialData = "verifyCredentialData"
	methodGetIssuerProfile     = "getIssuerProfile"
	methodVerifyDomain         = "verifyDomainOwnership"
)

const registryABI = `[
  {"type":"function","name":"credentials","stateMutability":"view",
   "inputs":[{"name":"","type":"uint256"}],
   "outputs":[
     {"name":"issuer","type":"address"},
     {"name":"holder","type":"address"},
     {"name":"dataHash","type":"bytes32"},
     {"name":"issuedAt","type":"uint256"},
     {"name":"revoked","type":"bool"}]},
  {"type":"function","name":"verifyCredentialData","stateMutability":"view",
   "inputs":[{"name":"credentialId","type":"uint256"},{"name":"credentialData","type":"string"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getIssuerProfile","stateMutability":"view",
   "inputs":[{"name":"issuer","type":"address"}],
   "outputs":[
     {"name":"domain","type":"string"},
     {"name":"isVerified","type":"bool"},
     {"name":"verifiedAt","type":"uint256"},
     {"name":"organizationName","type":"string"},
     {"name":"description","type":"string"}]},
  {"type":"function","name":"verifyDomainOwnership","stateMutability":"nonpayable",
   "inputs":[{"name":"issuer","type":"address"},{"name":"verified","type":"bool"}],
   "outputs":[]}
]`

var registry = mustParseABI(registryABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("ledger: invalid registry ABI: " + err.Error())
	}
	return parsed
}
