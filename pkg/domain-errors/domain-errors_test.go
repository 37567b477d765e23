package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Reason: "SHARE_NOT_FOUND", Message: "Share not found"}
		s.Equal("Share not found", err.Error())
	})

	s.Run("falls back to reason then code", func() {
		s.Equal("SHARE_NOT_FOUND", (&Error{Code: CodeNotFound, Reason: "SHARE_NOT_FOUND"}).Error())
		s.Equal("not_found", (&Error{Code: CodeNotFound}).Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	inner := errors.New("connection refused")
	err := &Error{Code: CodeUnavailable, Err: inner}
	s.Equal(inner, errors.Unwrap(err))
	s.Nil((&Error{Code: CodeNotFound}).Unwrap())
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code when target has no reason", func() {
		err := New(CodeGone, "SHARE_EXPIRED", "Share link has expired")
		s.True(errors.Is(err, &Error{Code: CodeGone}))
	})

	s.Run("matches by reason when target has one", func() {
		err := New(CodeGone, "SHARE_EXPIRED", "Share link has expired")
		s.True(errors.Is(err, &Error{Code: CodeGone, Reason: "SHARE_EXPIRED"}))
		s.False(errors.Is(err, &Error{Code: CodeGone, Reason: "SHARE_REVOKED"}))
	})

	s.Run("does not match different codes or plain errors", func() {
		err := New(CodeNotFound, "", "")
		s.False(errors.Is(err, &Error{Code: CodeInternal}))
		s.False(errors.Is(err, errors.New("not_found")))
	})

	s.Run("works through the chain", func() {
		inner := &Error{Code: CodeNotFound, Reason: "CREDENTIAL_NOT_FOUND"}
		wrapped := &Error{Code: CodeInternal, Err: inner}
		s.True(errors.Is(wrapped, &Error{Code: CodeNotFound, Reason: "CREDENTIAL_NOT_FOUND"}))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves original code and reason", func() {
		original := New(CodeNotFound, "CREDENTIAL_NOT_FOUND", "Credential not found")
		wrapped := Wrap(original, CodeInternal, "INTERNAL_ERROR", "lookup failed")

		var domainErr *Error
		s.Require().True(errors.As(wrapped, &domainErr))
		s.Equal(CodeNotFound, domainErr.Code)
		s.Equal("CREDENTIAL_NOT_FOUND", domainErr.Reason)
		s.Equal("lookup failed", domainErr.Message)
	})

	s.Run("uses provided code for plain errors", func() {
		original := errors.New("dial tcp: timeout")
		wrapped := Wrap(original, CodeUnavailable, "BLOCKCHAIN_ERROR", "Failed to verify credential")

		s.True(HasCode(wrapped, CodeUnavailable))
		s.Equal("BLOCKCHAIN_ERROR", ReasonOf(wrapped))
		s.True(errors.Is(wrapped, original))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.True(HasCode(New(CodeGone, "", ""), CodeGone))
	s.False(HasCode(New(CodeGone, "", ""), CodeNotFound))
	s.False(HasCode(errors.New("plain"), CodeNotFound))
	s.False(HasCode(nil, CodeNotFound))
	s.Empty(ReasonOf(errors.New("plain")))
}
