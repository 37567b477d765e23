package service

//go:generate mockgen -source=catalog.go -destination=mocks/mocks.go -package=mocks CredentialStore,IssuerStore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"skillchain/internal/credential/canonical"
	"skillchain/internal/credential/models"
	"skillchain/internal/ledger"
	ledgerMocks "skillchain/internal/ledger/mocks"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
)

const minimalCanonical = `{"skillName":"Go","expiryDate":"","notes":"","issuedAt":"1970-01-01T00:00:00.000Z","certificateUrl":null}`

var (
	issuerAddr = domain.Address("0x52908400098527886e0f7030069857d2e4169ee7")
	holderAddr = domain.Address("0x8617e340b3d01fa5f11f306f4090fd50e238070d")
)

type VerifierSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	ledger   *ledgerMocks.MockReader
	verifier *Verifier
	ctx      context.Context
}

func (s *VerifierSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ledger = ledgerMocks.NewMockReader(s.ctrl)
	s.verifier = NewVerifier(s.ledger, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.ctx = context.Background()
}

func (s *VerifierSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func record(hash common.Hash) *ledger.CredentialRecord {
	return &ledger.CredentialRecord{Issuer: issuerAddr, Holder: holderAddr, DataHash: hash, IssuedAt: 1_700_000_000}
}

func minimalData(t require.TestingT) *canonical.CredentialData {
	data, err := canonical.Parse(json.RawMessage(`{"credentialName":"Go","issuedDate":0}`))
	require.NoError(t, err)
	return data
}

func (s *VerifierSuite) TestGetCredential() {
	s.Run("enriches the record with the issuer profile", func() {
		profile := &ledger.IssuerProfile{Domain: "acme.io", IsVerified: true}
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(1)).Return(record(common.Hash{}), nil)
		s.ledger.EXPECT().GetIssuerProfile(gomock.Any(), issuerAddr).Return(profile, nil)

		got, err := s.verifier.GetCredential(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(profile, got.IssuerProfile)
		s.Equal(holderAddr, got.Record.Holder)
	})

	s.Run("profile failure degrades to nil", func() {
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(2)).Return(record(common.Hash{}), nil)
		s.ledger.EXPECT().GetIssuerProfile(gomock.Any(), issuerAddr).
			Return(nil, ledger.NewError(ledger.CategoryUnavailable, "getIssuerProfile", ledger.ErrCircuitOpen))

		got, err := s.verifier.GetCredential(s.ctx, 2)
		s.Require().NoError(err)
		s.Nil(got.IssuerProfile)
	})

	s.Run("unknown id is not found", func() {
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(3)).
			Return(nil, ledger.NewError(ledger.CategoryNotFound, "credentials", ledger.ErrCredentialNotFound))

		_, err := s.verifier.GetCredential(s.ctx, 3)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("CREDENTIAL_NOT_FOUND", dErrors.ReasonOf(err))
	})

	s.Run("ledger failure is a blockchain error", func() {
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(4)).
			Return(nil, ledger.NewError(ledger.CategoryTimeout, "credentials", context.DeadlineExceeded))

		_, err := s.verifier.GetCredential(s.ctx, 4)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Equal("BLOCKCHAIN_ERROR", dErrors.ReasonOf(err))
	})
}

func (s *VerifierSuite) TestVerifyBatch() {
	s.Run("isolates failures and keeps request order", func() {
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(1)).Return(record(common.Hash{}), nil)
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(2)).
			Return(nil, ledger.NewError(ledger.CategoryNotFound, "credentials", ledger.ErrCredentialNotFound))
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(3)).
			Return(nil, ledger.NewError(ledger.CategoryUnavailable, "credentials", errors.New("dial tcp: refused")))

		res := s.verifier.VerifyBatch(s.ctx, []models.RawID{"1", "2", "3", "-4"})

		s.Require().Len(res.Items, 4)
		s.Equal(1, res.TotalVerified)
		s.True(res.Items[0].Success())
		s.Equal("Credential not found", res.Items[1].Error)
		s.Equal("Ledger unavailable", res.Items[2].Error)
		s.Equal("Invalid credential ID", res.Items[3].Error)
		s.Equal(models.RawID("-4"), res.Items[3].RawID)
	})

	s.Run("ids beyond uint64 are not found without a ledger read", func() {
		res := s.verifier.VerifyBatch(s.ctx, []models.RawID{"18446744073709551616"})

		s.Require().Len(res.Items, 1)
		s.Zero(res.TotalVerified)
		s.Equal("Credential not found", res.Items[0].Error)
	})
}

func (s *VerifierSuite) TestVerifyData() {
	s.Run("passes the canonical form to the ledger verbatim", func() {
		s.ledger.EXPECT().VerifyCredentialData(gomock.Any(), domain.CredentialID(5), minimalCanonical).Return(true, nil)

		got, err := s.verifier.VerifyData(s.ctx, 5, minimalData(s.T()))
		s.Require().NoError(err)
		s.True(got.IsValid)
		s.Equal(minimalCanonical, got.Form.Canonical)
		s.Equal(canonical.Hash(minimalCanonical), got.Form.Hash)
		s.Equal("1970-01-01T00:00:00.000Z", got.Form.IssuedAt)
	})

	s.Run("ledger failure is a verification error", func() {
		s.ledger.EXPECT().VerifyCredentialData(gomock.Any(), domain.CredentialID(5), gomock.Any()).
			Return(false, ledger.NewError(ledger.CategoryUnavailable, "verifyCredentialData", errors.New("boom")))

		_, err := s.verifier.VerifyData(s.ctx, 5, minimalData(s.T()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Equal("VERIFICATION_ERROR", dErrors.ReasonOf(err))
	})

	s.Run("invalid issued date never reaches the ledger", func() {
		data, err := canonical.Parse(json.RawMessage(`{"credentialName":"Go","issuedDate":"not a date"}`))
		s.Require().NoError(err)

		_, err = s.verifier.VerifyData(s.ctx, 5, data)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *VerifierSuite) TestReconcile() {
	s.Run("matching hash", func() {
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(6)).
			Return(record(canonical.Hash(minimalCanonical)), nil)

		got, err := s.verifier.Reconcile(s.ctx, 6, minimalData(s.T()))
		s.Require().NoError(err)
		s.True(got.HashMatches)
		s.Equal(got.OnChainDataHash, got.LocalDataHash)
	})

	s.Run("revoked credential with a different hash", func() {
		rec := record(common.HexToHash("0x01"))
		rec.Revoked = true
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(7)).Return(rec, nil)

		got, err := s.verifier.Reconcile(s.ctx, 7, minimalData(s.T()))
		s.Require().NoError(err)
		s.False(got.HashMatches)
		s.True(got.Revoked)
		s.Equal(canonical.Hash(minimalCanonical).Hex(), got.LocalDataHash)
	})

	s.Run("unknown id is not found", func() {
		s.ledger.EXPECT().GetCredential(gomock.Any(), domain.CredentialID(8)).
			Return(nil, ledger.NewError(ledger.CategoryNotFound, "credentials", ledger.ErrCredentialNotFound))

		_, err := s.verifier.Reconcile(s.ctx, 8, minimalData(s.T()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// countingReader tracks how many GetCredential calls overlap.
type countingReader struct {
	ledger.Reader
	inFlight atomic.Int32
	mu       sync.Mutex
	peak     int32
}

func (r *countingReader) GetCredential(_ context.Context, id domain.CredentialID) (*ledger.CredentialRecord, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	r.mu.Lock()
	if n > r.peak {
		r.peak = n
	}
	r.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	return &ledger.CredentialRecord{Issuer: issuerAddr, IssuedAt: uint64(id)}, nil
}

func TestVerifyBatchBoundsConcurrency(t *testing.T) {
	reader := &countingReader{}
	v := NewVerifier(reader, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ids := []models.RawID{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	res := v.VerifyBatch(context.Background(), ids)

	require.Len(t, res.Items, len(ids))
	assert.Equal(t, len(ids), res.TotalVerified)
	for i, item := range res.Items {
		assert.Equal(t, uint64(i+1), item.Credential.IssuedAt)
	}
	assert.LessOrEqual(t, reader.peak, int32(defaultBatchConcurrency))
	assert.Greater(t, reader.peak, int32(1))
}
