package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	credentialModels "skillchain/internal/credential/models"
	"skillchain/internal/platform/metrics"
	"skillchain/internal/sharing/models"
	"skillchain/pkg/domain"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/platform/audit"
	"skillchain/pkg/platform/sentinel"
	"skillchain/pkg/requestcontext"
)

// LinkStore reads share links and records accesses.
// Error Contract:
//   - FindByID returns sentinel.ErrNotFound for unknown ids.
//   - RecordAccess returns sentinel.ErrInvalidState when the link stopped
//     being active, without changing it.
type LinkStore interface {
	FindByID(ctx context.Context, id domain.ShareID) (*models.ShareLink, error)
	RecordAccess(ctx context.Context, id domain.ShareID, now time.Time) (*models.ShareLink, error)
}

// CredentialCatalog lists a holder's credentials.
type CredentialCatalog interface {
	ListByHolder(ctx context.Context, holder domain.Address) ([]*credentialModels.Credential, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	links          LinkStore
	catalog        CredentialCatalog
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

func New(links LinkStore, catalog CredentialCatalog, opts ...Option) *Service {
	svc := &Service{links: links, catalog: catalog}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// AccessSharedCredentials returns the credentials a link shares and records
// the access. Denied accesses never change the link.
func (s *Service) AccessSharedCredentials(ctx context.Context, id domain.ShareID) (*models.AccessResult, error) {
	now := requestcontext.Now(ctx)

	link, err := s.links.FindByID(ctx, id)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, s.storeError(ctx, id, "failed to load share link", err)
	}
	if state := link.StateAt(now); state != models.StateActive {
		s.accessDenied(ctx, id, state)
		return nil, stateError(state)
	}

	credentials, err := s.sharedCredentials(ctx, link)
	if err != nil {
		return nil, err
	}
	if len(credentials) == 0 {
		s.accessDenied(ctx, id, "NO_CREDENTIALS_FOUND")
		return nil, dErrors.New(dErrors.CodeNotFound, "NO_CREDENTIALS_FOUND", "No valid credentials found for this share")
	}

	updated, err := s.links.RecordAccess(ctx, id, now)
	if err != nil {
		return nil, s.recordAccessFailed(ctx, id, now, err)
	}

	s.accessGranted(ctx, updated, len(credentials))
	return &models.AccessResult{Link: updated, Credentials: credentials}, nil
}

// sharedCredentials keeps the catalog order.
func (s *Service) sharedCredentials(ctx context.Context, link *models.ShareLink) ([]*credentialModels.Credential, error) {
	all, err := s.catalog.ListByHolder(ctx, link.Owner)
	if err != nil {
		return nil, err
	}
	shared := make([]*credentialModels.Credential, 0, len(link.CredentialIDs))
	for _, c := range all {
		if link.Includes(c.ID) {
			shared = append(shared, c)
		}
	}
	return shared, nil
}

// recordAccessFailed re-evaluates a link whose conditional increment matched
// nothing, so the caller sees why it stopped being active.
func (s *Service) recordAccessFailed(ctx context.Context, id domain.ShareID, now time.Time, err error) error {
	if !errors.Is(err, sentinel.ErrInvalidState) && !errors.Is(err, sentinel.ErrNotFound) {
		return s.storeError(ctx, id, "failed to record share access", err)
	}

	link, findErr := s.links.FindByID(ctx, id)
	if findErr != nil && !errors.Is(findErr, sentinel.ErrNotFound) {
		return s.storeError(ctx, id, "failed to reload share link", findErr)
	}
	state := link.StateAt(now)
	if state == models.StateActive {
		// Only a concurrent access that consumed the last slot can get here.
		state = models.StateAccessLimitReached
	}
	s.accessDenied(ctx, id, state)
	return stateError(state)
}

func (s *Service) storeError(ctx context.Context, id domain.ShareID, msg string, err error) error {
	s.logger.ErrorContext(ctx, msg,
		"error", err,
		"share_id", id.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "INTERNAL_ERROR", "Failed to retrieve shared credentials")
}

func stateError(state models.State) error {
	switch state {
	case models.StateNotFound:
		return dErrors.New(dErrors.CodeNotFound, "SHARE_NOT_FOUND", "Shared credential not found")
	case models.StateRevoked:
		return dErrors.New(dErrors.CodeGone, "SHARE_REVOKED", "This shared credential has been revoked")
	case models.StateExpired:
		return dErrors.New(dErrors.CodeGone, "SHARE_EXPIRED", "This shared credential has expired")
	default:
		return dErrors.New(dErrors.CodeGone, "ACCESS_LIMIT_REACHED", "Access limit reached for this shared credential")
	}
}
