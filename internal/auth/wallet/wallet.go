// Package wallet recovers the signer of a personal_sign (EIP-191) message and
// parses the login challenge a wallet is asked to sign.
package wallet

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"skillchain/pkg/domain"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidMessage   = errors.New("invalid login message")
)

// compactSignatureLength is the EIP-2098 form: r || yParityAndS.
const compactSignatureLength = 64

// RecoverAddress returns the account that signed message. The signature is
// 0x-prefixed hex, either 65 bytes (r || s || v, v in {0,1,27,28}) or the
// 64 byte compact form.
func RecoverAddress(message, signature string) (domain.Address, error) {
	raw, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	sig, err := normalize(raw)
	if err != nil {
		return "", err
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return domain.AddressFrom(crypto.PubkeyToAddress(*pub)), nil
}

// normalize returns a 65 byte signature with a 0/1 recovery id.
func normalize(raw []byte) ([]byte, error) {
	switch len(raw) {
	case crypto.SignatureLength:
		sig := make([]byte, crypto.SignatureLength)
		copy(sig, raw)
		v := sig[crypto.RecoveryIDOffset]
		switch {
		case v == 27 || v == 28:
			sig[crypto.RecoveryIDOffset] = v - 27
		case v > 1:
			return nil, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, v)
		}
		return sig, nil
	case compactSignatureLength:
		sig := make([]byte, crypto.SignatureLength)
		copy(sig, raw)
		sig[crypto.RecoveryIDOffset] = sig[32] >> 7
		sig[32] &= 0x7f
		return sig, nil
	default:
		return nil, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(raw))
	}
}

// Challenge is the login message grammar:
//
//	Sign this message to log in to <ServiceName>: <unix-millis>
//
// The grammar may appear anywhere inside the signed message.
type Challenge struct {
	serviceName string
	pattern     *regexp.Regexp
}

func NewChallenge(serviceName string) *Challenge {
	return &Challenge{
		serviceName: serviceName,
		pattern:     regexp.MustCompile(`Sign this message to log in to ` + regexp.QuoteMeta(serviceName) + `: (\d+)`),
	}
}

// Message renders the challenge a client should sign at t.
func (c *Challenge) Message(t time.Time) string {
	return fmt.Sprintf("Sign this message to log in to %s: %d", c.serviceName, t.UnixMilli())
}

// Timestamp extracts the signing time embedded in message.
func (c *Challenge) Timestamp(message string) (time.Time, error) {
	match := c.pattern.FindStringSubmatch(message)
	if match == nil {
		return time.Time{}, ErrInvalidMessage
	}
	ms, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return time.UnixMilli(ms), nil
}

// Fresh reports whether a message signed at signedAt is still usable at now.
// Only age is bounded; timestamps in the future are accepted.
func Fresh(signedAt, now time.Time, maxAge time.Duration) bool {
	return now.Sub(signedAt) <= maxAge
}
