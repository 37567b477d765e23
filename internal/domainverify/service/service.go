package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"skillchain/internal/domainverify/models"
	issuerModels "skillchain/internal/issuer/models"
	"skillchain/internal/ledger"
	"skillchain/internal/platform/metrics"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/platform/audit"
	"skillchain/pkg/platform/sentinel"
	"skillchain/pkg/requestcontext"
)

// AttemptStore tracks verification attempts per (domain, issuer).
// Error Contract: Get returns sentinel.ErrNotFound when no attempt exists.
type AttemptStore interface {
	Get(ctx context.Context, domain, issuer string) (*models.Attempt, error)
	RecordAttempt(ctx context.Context, domain, issuer string, at time.Time, success bool) (*models.Attempt, error)
}

// IssuerStatusStore records the confirmed verification on the issuer row.
type IssuerStatusStore interface {
	UpsertVerificationStatus(ctx context.Context, status issuerModels.VerificationStatus) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	defaultCooldown       = 24 * time.Hour
	defaultConfirmTimeout = 2 * time.Minute
)

type Config struct {
	// Cooldown applies after any recorded attempt, successful or not.
	Cooldown time.Duration
	// ConfirmTimeout bounds the wait for the transaction receipt.
	ConfirmTimeout time.Duration
}

type Service struct {
	attempts       AttemptStore
	issuers        IssuerStatusStore
	ledger         ledger.Writer
	cooldown       time.Duration
	confirmTimeout time.Duration
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(attempts AttemptStore, issuers IssuerStatusStore, writer ledger.Writer, cfg Config, opts ...Option) *Service {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = defaultConfirmTimeout
	}
	svc := &Service{
		attempts:       attempts,
		issuers:        issuers,
		ledger:         writer,
		cooldown:       cfg.Cooldown,
		confirmTimeout: cfg.ConfirmTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// VerifyDomain marks the issuer's domain as verified on the ledger and waits
// for confirmation.
//
// Every submission that fails or is confirmed records an attempt and arms
// the cooldown. A confirmation timeout records nothing: the transaction may
// still be mined, and the caller can retry with the returned hash in hand.
func (s *Service) VerifyDomain(ctx context.Context, req *models.VerifyDomainRequest) (*models.VerificationResult, error) {
	issuer, err := domain.ParseAddress(req.IssuerAddress)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	if err := s.checkCooldown(ctx, req.Domain, issuer, now); err != nil {
		return nil, err
	}

	tx, err := s.ledger.SetDomainVerified(ctx, issuer, true)
	if err != nil {
		return nil, s.verificationFailed(ctx, req.Domain, issuer, now, "submit", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	_, err = s.ledger.WaitConfirmed(waitCtx, tx)
	cancel()
	if err != nil {
		// The transaction may still be mined whether our timer or the
		// caller's context ended the wait.
		if ledger.CategoryOf(err) == ledger.CategoryTimeout {
			return nil, s.confirmationTimedOut(ctx, req.Domain, issuer, tx.Hex(), err)
		}
		return nil, s.verificationFailed(ctx, req.Domain, issuer, now, "confirm", err)
	}

	// The transaction is mined; record it even if the caller has gone away.
	ctx = context.WithoutCancel(ctx)
	if err := s.issuers.UpsertVerificationStatus(ctx, issuerModels.VerificationStatus{
		Address:    issuer,
		Domain:     req.Domain,
		IsVerified: true,
		VerifiedAt: now,
		UpdatedAt:  now,
	}); err != nil {
		return nil, s.verificationFailed(ctx, req.Domain, issuer, now, "update issuer", err)
	}
	if _, err := s.attempts.RecordAttempt(ctx, req.Domain, issuer.String(), now, true); err != nil {
		return nil, s.verificationFailed(ctx, req.Domain, issuer, now, "record attempt", err)
	}

	s.verificationSucceeded(ctx, req.Domain, issuer, tx.Hex())
	return &models.VerificationResult{
		TransactionHash: tx.Hex(),
		Domain:          req.Domain,
		IssuerAddress:   req.IssuerAddress,
	}, nil
}

func (s *Service) checkCooldown(ctx context.Context, domainName string, issuer domain.Address, now time.Time) error {
	attempt, err := s.attempts.Get(ctx, domainName, issuer.String())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		s.logger.ErrorContext(ctx, "failed to read verification attempts",
			"error", err,
			"domain", domainName,
			"request_id", requestcontext.RequestID(ctx),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "DATABASE_ERROR", "Database error")
	}

	elapsed := now.Sub(attempt.LastAttempt)
	if elapsed >= s.cooldown {
		return nil
	}
	hours := int(math.Ceil((s.cooldown - elapsed).Hours()))
	s.metrics.IncDomainVerification("cooldown")
	return dErrors.New(dErrors.CodeRateLimited, "DOMAIN_VERIFICATION_COOLDOWN",
		fmt.Sprintf("Domain verification cooldown active. Try again in %d hours.", hours))
}

// verificationFailed records the failed attempt and builds the client error
// from the failure that ended the verification.
func (s *Service) verificationFailed(ctx context.Context, domainName string, issuer domain.Address, now time.Time, stage string, cause error) error {
	if _, err := s.attempts.RecordAttempt(context.WithoutCancel(ctx), domainName, issuer.String(), now, false); err != nil {
		s.logger.ErrorContext(ctx, "failed to record verification attempt",
			"error", err,
			"domain", domainName,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	s.verificationDenied(ctx, domainName, issuer, stage, cause)
	return dErrors.Wrap(cause, dErrors.CodeBadRequest, "DOMAIN_VERIFICATION_FAILED", failureMessage(cause))
}

func (s *Service) confirmationTimedOut(ctx context.Context, domainName string, issuer domain.Address, tx string, cause error) error {
	s.logger.WarnContext(ctx, "domain verification confirmation timed out",
		"error", cause,
		"domain", domainName,
		"issuer", issuer.String(),
		"tx_hash", tx,
		"timeout", s.confirmTimeout,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncDomainVerification("timeout")
	return dErrors.Wrap(cause, dErrors.CodeTimeout, "LEDGER_CONFIRMATION_TIMEOUT",
		fmt.Sprintf("Transaction %s was not confirmed in time", tx))
}

func failureMessage(err error) string {
	var le *ledger.Error
	if !errors.As(err, &le) {
		return "Domain verification failed: could not store verification status"
	}
	switch {
	case errors.Is(err, ledger.ErrReadOnly):
		return "Domain verification failed: no signing key configured"
	case le.Category == ledger.CategoryReverted:
		return "Domain verification failed: transaction reverted"
	case le.Category == ledger.CategoryTimeout:
		return "Domain verification failed: ledger request timed out"
	case le.Category == ledger.CategoryBadData:
		return "Domain verification failed: ledger returned malformed data"
	default:
		return "Domain verification failed: ledger unavailable"
	}
}

// GenerateWellKnown builds the descriptor the caller must publish on domain.
// It has no side effects.
func (s *Service) GenerateWellKnown(ctx context.Context, domainName string) (*models.WellKnown, error) {
	identity, ok := requestcontext.Identity(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return &models.WellKnown{
		Content: models.WellKnownContent{
			Domain:    domainName,
			Issuer:    identity.Address.String(),
			Timestamp: requestcontext.Now(ctx).UnixMilli(),
			Version:   models.WellKnownVersion,
			Purpose:   models.WellKnownPurpose,
		},
		Instructions: fmt.Sprintf("Place this content in https://%s%s", domainName, models.WellKnownPath),
	}, nil
}
