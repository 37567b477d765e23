package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skillchain/internal/platform/metrics"
	"skillchain/pkg/platform/middleware/auth"
	"skillchain/pkg/platform/middleware/metadata"
	"skillchain/pkg/platform/middleware/request"
	"skillchain/pkg/platform/validation"
)

// APIPrefix is where every business route is mounted.
const APIPrefix = "/api"

const (
	defaultRequestTimeout    = 30 * time.Second
	defaultConfirmingTimeout = 2*time.Minute + 30*time.Second
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Modules groups the route registrars. Protected and Confirming routes run
// behind the session middleware. Confirming routes wait for ledger
// confirmation and are bounded by ConfirmingTimeout instead of RequestTimeout.
type Modules struct {
	Health     Registrar
	Public     []Registrar
	Protected  []Registrar
	Confirming []Registrar
}

type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Sessions       auth.SessionValidator
	TrustedProxies []netip.Prefix
	AllowedOrigins []string
	RequestTimeout time.Duration
	// ConfirmingTimeout must exceed the ledger confirmation timeout so the
	// service reports its own retryable timeout first.
	ConfirmingTimeout time.Duration
}

// NewRouter wires all endpoints with the shared middleware stack.
func NewRouter(cfg Config, modules Modules) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.ConfirmingTimeout <= 0 {
		cfg.ConfirmingTimeout = defaultConfirmingTimeout
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(metadata.NewMiddleware(metadata.Config{TrustedProxies: cfg.TrustedProxies}).Handler)
	r.Use(request.Logger(cfg.Logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if modules.Health != nil {
		modules.Health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(request.BodyLimit(validation.MaxBodySize))
		api.Use(request.ContentTypeJSON)
		api.Use(request.Latency(cfg.Metrics))

		api.Group(func(g chi.Router) {
			g.Use(request.Timeout(cfg.RequestTimeout))
			for _, m := range modules.Public {
				m.Register(g)
			}
			g.Group(func(protected chi.Router) {
				protected.Use(auth.RequireAuth(cfg.Sessions, cfg.Logger))
				for _, m := range modules.Protected {
					m.Register(protected)
				}
			})
		})

		api.Group(func(confirming chi.Router) {
			confirming.Use(request.Timeout(cfg.ConfirmingTimeout))
			confirming.Use(auth.RequireAuth(cfg.Sessions, cfg.Logger))
			for _, m := range modules.Confirming {
				m.Register(confirming)
			}
		})
	})

	return r
}
