package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/mock/gomock"

	"skillchain/internal/auth/models"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/platform/audit"
	"skillchain/pkg/platform/sentinel"
)

func (s *ServiceSuite) TestVerifyWallet() {
	s.Run("issues a token and reports the profile", func() {
		req := s.signedRequest(s.loginMessage(s.now.Add(-time.Minute)))
		s.mockProfiles.EXPECT().FindByAddress(gomock.Any(), s.address).
			Return(&models.Profile{Address: s.address, Email: "holder@example.com"}, nil)
		s.mockTokens.EXPECT().IssueSessionToken(gomock.Any(), s.address, "holder@example.com").Return("session-token", nil)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, e audit.Event) error {
				s.Equal(audit.ActionWalletLogin, e.Action)
				s.Equal(audit.DecisionGranted, e.Decision)
				s.Equal(s.address.String(), e.Subject)
				return nil
			})

		res, err := s.service.VerifyWallet(s.ctx, req)
		s.Require().NoError(err)
		s.Equal("session-token", res.Token)
		s.Equal(s.address, res.Address)
		s.Equal("holder@example.com", res.Email)
		s.True(res.HasProfile)
	})

	s.Run("missing profile is not an error", func() {
		req := s.signedRequest(s.loginMessage(s.now))
		s.mockProfiles.EXPECT().FindByAddress(gomock.Any(), s.address).
			Return(nil, sentinel.ErrNotFound)
		s.mockTokens.EXPECT().IssueSessionToken(gomock.Any(), s.address, "").Return("session-token", nil)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		res, err := s.service.VerifyWallet(s.ctx, req)
		s.Require().NoError(err)
		s.False(res.HasProfile)
		s.Empty(res.Email)
	})

	s.Run("address comparison ignores checksum casing", func() {
		req := s.signedRequest(s.loginMessage(s.now))
		req.Address = "0x" + strings.ToUpper(req.Address[2:])
		s.mockProfiles.EXPECT().FindByAddress(gomock.Any(), s.address).Return(nil, sentinel.ErrNotFound)
		s.mockTokens.EXPECT().IssueSessionToken(gomock.Any(), s.address, "").Return("t", nil)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.VerifyWallet(s.ctx, req)
		s.NoError(err)
	})

	s.Run("future timestamps are accepted", func() {
		req := s.signedRequest(s.loginMessage(s.now.Add(time.Hour)))
		s.mockProfiles.EXPECT().FindByAddress(gomock.Any(), s.address).Return(nil, sentinel.ErrNotFound)
		s.mockTokens.EXPECT().IssueSessionToken(gomock.Any(), s.address, "").Return("t", nil)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.VerifyWallet(s.ctx, req)
		s.NoError(err)
	})

	s.Run("audit failures do not fail the login", func() {
		req := s.signedRequest(s.loginMessage(s.now))
		s.mockProfiles.EXPECT().FindByAddress(gomock.Any(), s.address).Return(nil, sentinel.ErrNotFound)
		s.mockTokens.EXPECT().IssueSessionToken(gomock.Any(), s.address, "").Return("t", nil)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := s.service.VerifyWallet(s.ctx, req)
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestVerifyWalletFailures() {
	s.Run("undecodable signature", func() {
		req := s.signedRequest(s.loginMessage(s.now))
		req.Signature = "0x" + strings.Repeat("zz", 65)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.VerifyWallet(s.ctx, req)
		s.assertReason(err, dErrors.CodeBadRequest, "INVALID_SIGNATURE_FORMAT")
	})

	s.Run("signature from another wallet", func() {
		other, err := crypto.GenerateKey()
		s.Require().NoError(err)
		msg := s.loginMessage(s.now)
		req := s.signedRequest(msg)
		req.Address = crypto.PubkeyToAddress(other.PublicKey).Hex()
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err = s.service.VerifyWallet(s.ctx, req)
		s.assertReason(err, dErrors.CodeUnauthorized, "SIGNATURE_MISMATCH")
	})

	s.Run("mismatch is reported before grammar", func() {
		other, err := crypto.GenerateKey()
		s.Require().NoError(err)
		req := s.signedRequest("not the login grammar at all")
		req.Address = crypto.PubkeyToAddress(other.PublicKey).Hex()
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err = s.service.VerifyWallet(s.ctx, req)
		s.assertReason(err, dErrors.CodeUnauthorized, "SIGNATURE_MISMATCH")
	})

	s.Run("wrong grammar", func() {
		req := s.signedRequest("Sign this message to log in to OtherApp: 1700000000000")
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.VerifyWallet(s.ctx, req)
		s.assertReason(err, dErrors.CodeBadRequest, "INVALID_MESSAGE_FORMAT")
	})

	s.Run("stale message", func() {
		req := s.signedRequest(s.loginMessage(s.now.Add(-5*time.Minute - time.Millisecond)))
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, e audit.Event) error {
				s.Equal(audit.DecisionDenied, e.Decision)
				s.Equal("MESSAGE_EXPIRED", e.Reason)
				return nil
			})

		_, err := s.service.VerifyWallet(s.ctx, req)
		s.assertReason(err, dErrors.CodeBadRequest, "MESSAGE_EXPIRED")
	})

	s.Run("profile store failure", func() {
		req := s.signedRequest(s.loginMessage(s.now))
		s.mockProfiles.EXPECT().FindByAddress(gomock.Any(), s.address).Return(nil, errors.New("connection refused"))

		_, err := s.service.VerifyWallet(s.ctx, req)
		s.assertReason(err, dErrors.CodeInternal, "DATABASE_ERROR")
	})

	s.Run("token issuance failure", func() {
		req := s.signedRequest(s.loginMessage(s.now))
		s.mockProfiles.EXPECT().FindByAddress(gomock.Any(), s.address).Return(nil, sentinel.ErrNotFound)
		s.mockTokens.EXPECT().IssueSessionToken(gomock.Any(), s.address, "").Return("", errors.New("signing failed"))

		_, err := s.service.VerifyWallet(s.ctx, req)
		s.assertReason(err, dErrors.CodeInternal, "INTERNAL_ERROR")
	})

	s.Run("compact signatures are accepted", func() {
		msg := s.loginMessage(s.now)
		req := s.signedRequest(msg)
		raw, err := hexutil.Decode(req.Signature)
		s.Require().NoError(err)
		compact := raw[:64]
		if raw[64] == 28 {
			compact[32] |= 0x80
		}
		req.Signature = hexutil.Encode(compact)
		s.mockProfiles.EXPECT().FindByAddress(gomock.Any(), s.address).Return(nil, sentinel.ErrNotFound)
		s.mockTokens.EXPECT().IssueSessionToken(gomock.Any(), s.address, "").Return("t", nil)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err = s.service.VerifyWallet(s.ctx, req)
		s.NoError(err)
	})
}

func (s *ServiceSuite) assertReason(err error, code dErrors.Code, reason string) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "code: %v", err)
	s.Equal(reason, dErrors.ReasonOf(err))
}
