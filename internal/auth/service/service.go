package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"skillchain/internal/auth/models"
	"skillchain/internal/auth/wallet"
	"skillchain/internal/platform/metrics"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/platform/audit"
	"skillchain/pkg/platform/sentinel"
	"skillchain/pkg/requestcontext"
)

// ProfileStore reads the optional profile attached to a wallet.
// Error Contract: FindByAddress returns sentinel.ErrNotFound when no profile exists.
type ProfileStore interface {
	FindByAddress(ctx context.Context, address domain.Address) (*models.Profile, error)
}

// TokenIssuer mints session tokens for a verified wallet.
type TokenIssuer interface {
	IssueSessionToken(ctx context.Context, address domain.Address, email string) (string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	defaultServiceName   = "SkillChain"
	defaultMessageMaxAge = 5 * time.Minute
)

// Config controls the login challenge.
type Config struct {
	ServiceName   string
	MessageMaxAge time.Duration
}

type Service struct {
	profiles       ProfileStore
	tokens         TokenIssuer
	challenge      *wallet.Challenge
	messageMaxAge  time.Duration
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

func New(profiles ProfileStore, tokens TokenIssuer, cfg Config, opts ...Option) *Service {
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	if cfg.MessageMaxAge <= 0 {
		cfg.MessageMaxAge = defaultMessageMaxAge
	}
	svc := &Service{
		profiles:      profiles,
		tokens:        tokens,
		challenge:     wallet.NewChallenge(cfg.ServiceName),
		messageMaxAge: cfg.MessageMaxAge,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// VerifyWallet authenticates a wallet by its signature over the login
// challenge and issues a session token.
//
// Checks run in a fixed order so the first failing one decides the error:
// signature decoding, signer match, message grammar, message age.
func (s *Service) VerifyWallet(ctx context.Context, req *models.VerifyWalletRequest) (*models.LoginResult, error) {
	claimed, err := domain.ParseAddress(req.Address)
	if err != nil {
		return nil, err
	}

	signer, err := wallet.RecoverAddress(req.Message, req.Signature)
	if err != nil {
		s.loginDenied(ctx, claimed, "INVALID_SIGNATURE_FORMAT")
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "INVALID_SIGNATURE_FORMAT", "Invalid signature format")
	}
	if signer != claimed {
		s.loginDenied(ctx, claimed, "SIGNATURE_MISMATCH")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "SIGNATURE_MISMATCH", "Signature does not match address")
	}

	signedAt, err := s.challenge.Timestamp(req.Message)
	if err != nil {
		s.loginDenied(ctx, claimed, "INVALID_MESSAGE_FORMAT")
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "INVALID_MESSAGE_FORMAT", "Invalid message format")
	}
	if !wallet.Fresh(signedAt, requestcontext.Now(ctx), s.messageMaxAge) {
		s.loginDenied(ctx, claimed, "MESSAGE_EXPIRED")
		return nil, dErrors.New(dErrors.CodeBadRequest, "MESSAGE_EXPIRED", "Message expired")
	}

	profile, err := s.lookupProfile(ctx, claimed)
	if err != nil {
		return nil, err
	}

	var email string
	if profile != nil {
		email = profile.Email
	}

	token, err := s.tokens.IssueSessionToken(ctx, claimed, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue session token",
			"error", err,
			"address", claimed.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.IncWalletLogin("token_error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "INTERNAL_ERROR", "failed to issue session token")
	}

	s.loginGranted(ctx, claimed)
	return &models.LoginResult{
		Token:      token,
		Address:    claimed,
		Email:      email,
		HasProfile: profile != nil,
	}, nil
}

// lookupProfile returns nil without error when the wallet has no profile.
func (s *Service) lookupProfile(ctx context.Context, address domain.Address) (*models.Profile, error) {
	profile, err := s.profiles.FindByAddress(ctx, address)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	s.logger.ErrorContext(ctx, "failed to fetch user profile",
		"error", err,
		"address", address.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncWalletLogin("database_error")
	return nil, dErrors.Wrap(err, dErrors.CodeInternal, "DATABASE_ERROR", "Database error")
}
