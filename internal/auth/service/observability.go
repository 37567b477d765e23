package service

import (
	"context"
	"strings"

	"skillchain/internal/platform/metrics"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/audit"
	"skillchain/pkg/requestcontext"
)

func (s *Service) loginGranted(ctx context.Context, address domain.Address) {
	s.logger.InfoContext(ctx, "wallet login",
		"address", address.String(),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	s.metrics.IncWalletLogin(metrics.OutcomeSuccess)
	s.emit(ctx, audit.Event{
		Action:   audit.ActionWalletLogin,
		Subject:  address.String(),
		Decision: audit.DecisionGranted,
	})
}

func (s *Service) loginDenied(ctx context.Context, address domain.Address, reason string) {
	s.logger.WarnContext(ctx, "wallet login denied",
		"address", address.String(),
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncWalletLogin(strings.ToLower(reason))
	s.emit(ctx, audit.Event{
		Action:   audit.ActionWalletLogin,
		Subject:  address.String(),
		Decision: audit.DecisionDenied,
		Reason:   reason,
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
