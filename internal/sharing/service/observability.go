package service

import (
	"context"
	"strconv"
	"strings"

	"skillchain/internal/platform/metrics"
	"skillchain/internal/sharing/models"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/audit"
	"skillchain/pkg/platform/middleware/metadata"
	"skillchain/pkg/requestcontext"
)

func (s *Service) accessGranted(ctx context.Context, link *models.ShareLink, shared int) {
	device := metadata.DeviceLabel(requestcontext.UserAgent(ctx))
	s.logger.InfoContext(ctx, "shared credentials accessed",
		"share_id", link.ShareID.String(),
		"owner", link.Owner.String(),
		"access_count", link.AccessCount,
		"device", device,
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	s.metrics.IncShareAccess(metrics.OutcomeSuccess)
	s.emit(ctx, audit.Event{
		Action:   audit.ActionShareAccessed,
		Subject:  link.ShareID.String(),
		Actor:    link.Owner.String(),
		Decision: audit.DecisionGranted,
		Attributes: map[string]string{
			"device":       device,
			"access_count": strconv.Itoa(link.AccessCount),
			"credentials":  strconv.Itoa(shared),
		},
	})
}

func (s *Service) accessDenied(ctx context.Context, id domain.ShareID, reason models.State) {
	s.logger.WarnContext(ctx, "shared credentials access denied",
		"share_id", id.String(),
		"reason", string(reason),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncShareAccess(strings.ToLower(string(reason)))
	s.emit(ctx, audit.Event{
		Action:   audit.ActionShareDenied,
		Subject:  id.String(),
		Decision: audit.DecisionDenied,
		Reason:   string(reason),
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
