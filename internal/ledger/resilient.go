package ledger

import (
	"context"
	"errors"
	"log/slog"

	"skillchain/internal/platform/metrics"
	"skillchain/pkg/domain"
	"skillchain/pkg/platform/circuit"
	"skillchain/pkg/platform/sentinel"
	"skillchain/pkg/platform/tracer"
	"skillchain/pkg/requestcontext"
)

// Profile cache results reported to metrics.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheSkipped = "skipped"
)

// ResilientReader wraps a Reader so issuer-profile reads go through a cache
// and a circuit breaker. Credential reads pass straight through.
//
// While the breaker is open, GetIssuerProfile fails fast with ErrCircuitOpen
// instead of calling the ledger. Callers treat the profile as optional.
type ResilientReader struct {
	Reader
	cache   ProfileCache
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

type ResilientOption func(*ResilientReader)

func WithProfileCache(cache ProfileCache) ResilientOption {
	return func(r *ResilientReader) {
		r.cache = cache
	}
}

func WithBreaker(b *circuit.Breaker) ResilientOption {
	return func(r *ResilientReader) {
		r.breaker = b
	}
}

func WithReaderLogger(logger *slog.Logger) ResilientOption {
	return func(r *ResilientReader) {
		r.logger = logger
	}
}

func WithReaderMetrics(m *metrics.Metrics) ResilientOption {
	return func(r *ResilientReader) {
		r.metrics = m
	}
}

func WithReaderTracer(t tracer.Tracer) ResilientOption {
	return func(r *ResilientReader) {
		r.tracer = t
	}
}

func NewResilientReader(delegate Reader, opts ...ResilientOption) *ResilientReader {
	r := &ResilientReader{Reader: delegate}
	for _, opt := range opts {
		opt(r)
	}
	if r.breaker == nil {
		r.breaker = circuit.New("issuer_profile")
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = tracer.NewNoop()
	}
	return r
}

func (r *ResilientReader) GetIssuerProfile(ctx context.Context, issuer domain.Address) (profile *IssuerProfile, err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanProfileCache, tracer.String(tracer.AttrIssuer, issuer.String()))
	defer func() { span.End(err) }()

	if cached, ok := r.fromCache(ctx, issuer); ok {
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
		return cached, nil
	}
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, false))

	if !r.breaker.Allow() {
		r.metrics.IncProfileCache(CacheSkipped)
		span.SetAttributes(tracer.String(tracer.AttrCircuitState, r.breaker.State().String()))
		return nil, NewError(CategoryUnavailable, methodGetIssuerProfile, ErrCircuitOpen)
	}

	profile, err = r.Reader.GetIssuerProfile(ctx, issuer)
	if err != nil {
		if change := r.breaker.RecordFailure(); change.Opened {
			r.metrics.SetProfileCircuitOpen(true)
			r.logger.ErrorContext(ctx, "circuit breaker opened",
				"circuit", r.breaker.Name(),
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return nil, err
	}
	if change := r.breaker.RecordSuccess(); change.Closed {
		r.metrics.SetProfileCircuitOpen(false)
		r.logger.InfoContext(ctx, "circuit breaker closed",
			"circuit", r.breaker.Name(),
		)
	}

	r.toCache(ctx, issuer, profile)
	return profile, nil
}

func (r *ResilientReader) fromCache(ctx context.Context, issuer domain.Address) (*IssuerProfile, bool) {
	if r.cache == nil {
		return nil, false
	}
	profile, err := r.cache.Get(ctx, issuer)
	if err == nil {
		r.metrics.IncProfileCache(CacheHit)
		return profile, true
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		r.logger.WarnContext(ctx, "issuer profile cache read failed",
			"error", err,
			"issuer", issuer.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	r.metrics.IncProfileCache(CacheMiss)
	return nil, false
}

func (r *ResilientReader) toCache(ctx context.Context, issuer domain.Address, profile *IssuerProfile) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, issuer, profile); err != nil {
		r.logger.WarnContext(ctx, "issuer profile cache write failed",
			"error", err,
			"issuer", issuer.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
