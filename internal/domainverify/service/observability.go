package service

import (
	"context"

	"skillchain/internal/platform/metrics"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/audit"
	"skillchain/pkg/requestcontext"
)

func actor(ctx context.Context) string {
	if id, ok := requestcontext.Identity(ctx); ok {
		return id.Address.String()
	}
	return ""
}

func (s *Service) verificationSucceeded(ctx context.Context, domainName string, issuer domain.Address, tx string) {
	s.logger.InfoContext(ctx, "domain verified",
		"domain", domainName,
		"issuer", issuer.String(),
		"tx_hash", tx,
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	s.metrics.IncDomainVerification(metrics.OutcomeSuccess)
	s.emit(ctx, audit.Event{
		Action:     audit.ActionDomainVerification,
		Subject:    issuer.String(),
		Actor:      actor(ctx),
		Decision:   audit.DecisionGranted,
		Attributes: map[string]string{"domain": domainName, "tx_hash": tx},
	})
}

func (s *Service) verificationDenied(ctx context.Context, domainName string, issuer domain.Address, stage string, cause error) {
	s.logger.ErrorContext(ctx, "domain verification failed",
		"error", cause,
		"stage", stage,
		"domain", domainName,
		"issuer", issuer.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncDomainVerification(metrics.OutcomeFailure)
	s.emit(ctx, audit.Event{
		Action:     audit.ActionDomainVerification,
		Subject:    issuer.String(),
		Actor:      actor(ctx),
		Decision:   audit.DecisionFailed,
		Reason:     stage,
		Attributes: map[string]string{"domain": domainName},
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
