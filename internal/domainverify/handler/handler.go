package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"skillchain/internal/domainverify/models"
	"skillchain/internal/ratelimit"
	dErrors "skillchain/pkg/domain-errors"
	"skillchain/pkg/platform/httputil"
	"skillchain/pkg/requestcontext"
)

const (
	verifyLimit  = 5
	verifyWindow = time.Hour
)

// Service defines the domain ownership operations.
type Service interface {
	VerifyDomain(ctx context.Context, req *models.VerifyDomainRequest) (*models.VerificationResult, error)
	GenerateWellKnown(ctx context.Context, domain string) (*models.WellKnown, error)
}

// RateLimiter consumes one request slot for key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*ratelimit.Result, error)
}

// Handler serves domain verification. Routes must be mounted behind the
// session middleware.
type Handler struct {
	domains Service
	limiter RateLimiter
	logger  *slog.Logger
}

// New builds a Handler. A nil limiter disables rate limiting.
func New(domains Service, limiter RateLimiter, logger *slog.Logger) *Handler {
	return &Handler{domains: domains, limiter: limiter, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/domain/verify", h.HandleVerify)
	r.Post("/domain/generate-wellknown", h.HandleGenerateWellKnown)
}

// HandleVerify implements POST /domain/verify.
//
// Input: { "domain": "acme.io", "issuerAddress": "0x..." }
// Output: { "success": true, "message": "...", "transactionHash": "0x...", "domain": "acme.io", "issuerAddress": "0x..." }
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.VerifyDomainRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if !h.allow(w, r, req.Domain) {
		return
	}

	res, err := h.domains.VerifyDomain(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "domain verification failed",
			"error", err,
			"domain", req.Domain,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewVerifyDomainResponse(res))
}

// HandleGenerateWellKnown implements POST /domain/generate-wellknown.
func (h *Handler) HandleGenerateWellKnown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.GenerateWellKnownRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.domains.GenerateWellKnown(ctx, req.Domain)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// allow applies the per-client, per-domain limit. Limiter failures let the
// request through.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, domain string) bool {
	if h.limiter == nil {
		return true
	}
	ctx := r.Context()
	key := "domain-verify:" + requestcontext.ClientIP(ctx) + "-" + strings.ToLower(domain)

	res, err := h.limiter.Allow(ctx, key, verifyLimit, verifyWindow)
	if err != nil {
		h.logger.ErrorContext(ctx, "rate limiter unavailable",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return true
	}
	ratelimit.SetHeaders(w, res)
	if !res.Allowed {
		httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "RATE_LIMITED",
			"Too many domain verification attempts, please try again later."))
		return false
	}
	return true
}
