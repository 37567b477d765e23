package wallet

import (
	"crypto/ecdsa"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillchain/pkg/domain"
)

func sign(t *testing.T, key *ecdsa.PrivateKey, message string) []byte {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return sig
}

func TestRecoverAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := domain.AddressFrom(crypto.PubkeyToAddress(key.PublicKey))
	message := "Sign this message to log in to SkillChain: 1700000000000"

	t.Run("legacy v=27/28 signature", func(t *testing.T) {
		got, err := RecoverAddress(message, hexutil.Encode(sign(t, key, message)))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("raw recovery id", func(t *testing.T) {
		sig := sign(t, key, message)
		sig[crypto.RecoveryIDOffset] -= 27
		got, err := RecoverAddress(message, hexutil.Encode(sig))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("compact signature", func(t *testing.T) {
		sig := sign(t, key, message)
		compact := make([]byte, 64)
		copy(compact, sig[:64])
		if sig[crypto.RecoveryIDOffset] == 28 {
			compact[32] |= 0x80
		}
		got, err := RecoverAddress(message, hexutil.Encode(compact))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("different message recovers a different signer", func(t *testing.T) {
		got, err := RecoverAddress(message+" ", hexutil.Encode(sign(t, key, message)))
		require.NoError(t, err)
		assert.NotEqual(t, want, got)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		cases := map[string]string{
			"no prefix":    strings.Repeat("ab", 65),
			"not hex":      "0x" + strings.Repeat("zz", 65),
			"wrong length": "0x" + strings.Repeat("ab", 40),
			"bad v":        "0x" + strings.Repeat("11", 64) + "05",
		}
		for name, sig := range cases {
			_, err := RecoverAddress(message, sig)
			assert.True(t, errors.Is(err, ErrInvalidSignature), name)
		}
	})
}

func TestChallenge(t *testing.T) {
	c := NewChallenge("SkillChain")
	at := time.UnixMilli(1700000000123)

	t.Run("round trips the rendered message", func(t *testing.T) {
		got, err := c.Timestamp(c.Message(at))
		require.NoError(t, err)
		assert.True(t, got.Equal(at))
	})

	t.Run("grammar may be embedded", func(t *testing.T) {
		got, err := c.Timestamp("Welcome!\n\nSign this message to log in to SkillChain: 1700000000123\nNonce: x")
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000123), got.UnixMilli())
	})

	t.Run("rejects other services and missing timestamps", func(t *testing.T) {
		for _, msg := range []string{
			"Sign this message to log in to OtherApp: 1700000000123",
			"Sign this message to log in to SkillChain: now",
			"hello world",
			"Sign this message to log in to SkillChain: 99999999999999999999999",
		} {
			_, err := c.Timestamp(msg)
			assert.ErrorIs(t, err, ErrInvalidMessage, msg)
		}
	})

	t.Run("service name is matched literally", func(t *testing.T) {
		dotted := NewChallenge("Skill.Chain")
		_, err := dotted.Timestamp("Sign this message to log in to SkillXChain: 1")
		assert.ErrorIs(t, err, ErrInvalidMessage)
	})
}

func TestFresh(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	maxAge := 5 * time.Minute

	assert.True(t, Fresh(now.Add(-maxAge), now, maxAge), "exactly max age")
	assert.False(t, Fresh(now.Add(-maxAge-time.Millisecond), now, maxAge))
	assert.True(t, Fresh(now.Add(time.Hour), now, maxAge), "future timestamps accepted")
}
