package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	authHandler "skillchain/internal/auth/handler"
	authService "skillchain/internal/auth/service"
	profileStore "skillchain/internal/auth/store/profile"
	credentialHandler "skillchain/internal/credential/handler"
	credentialService "skillchain/internal/credential/service"
	credentialStore "skillchain/internal/credential/store"
	domainHandler "skillchain/internal/domainverify/handler"
	domainService "skillchain/internal/domainverify/service"
	domainStore "skillchain/internal/domainverify/store"
	issuerStore "skillchain/internal/issuer/store"
	jwttoken "skillchain/internal/jwt_token"
	"skillchain/internal/ledger"
	"skillchain/internal/platform/config"
	"skillchain/internal/platform/database"
	"skillchain/internal/platform/health"
	"skillchain/internal/platform/kafka/producer"
	"skillchain/internal/platform/metrics"
	"skillchain/internal/platform/redis"
	"skillchain/internal/ratelimit"
	sharingHandler "skillchain/internal/sharing/handler"
	sharingService "skillchain/internal/sharing/service"
	sharingStore "skillchain/internal/sharing/store"
	httptransport "skillchain/internal/transport/http"
	"skillchain/pkg/platform/audit"
	"skillchain/pkg/platform/audit/publisher"
	"skillchain/pkg/platform/audit/sinks"
	"skillchain/pkg/platform/circuit"
	"skillchain/pkg/platform/middleware/metadata"
	"skillchain/pkg/platform/tracer"
)

const auditBufferSize = 1024

// application holds the assembled router and everything that must be closed
// on shutdown, in reverse order of construction.
type application struct {
	Router  http.Handler
	closers []io.Closer
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// stores groups the persistence backends. Postgres is used when
// DATABASE_URL is set, in-memory stores otherwise.
type stores struct {
	profiles    authService.ProfileStore
	credentials credentialService.CredentialStore
	issuers     interface {
		credentialService.IssuerStore
		domainService.IssuerStatusStore
	}
	links    sharingService.LinkStore
	attempts domainService.AttemptStore
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (app *application, err error) {
	app = &application{}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)
	checks := health.New(cfg.Env)
	otel := tracer.NewOTel()

	st, err := buildStores(ctx, cfg, log, app, checks)
	if err != nil {
		return nil, err
	}

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		rc, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, rc)
		checks.RegisterCheck("redis", rc.Health)
		redisClient = rc.Client
	} else {
		log.Warn("REDIS_URL not set; issuer profiles are not cached and rate limits are per process")
	}

	chain, err := ledger.Dial(ctx, ledger.Config{
		RPCURL:          cfg.RPCURL,
		ContractAddress: cfg.ContractAddress,
		PrivateKey:      cfg.PrivateKey,
	},
		ledger.WithLogger(log),
		ledger.WithMetrics(m),
		ledger.WithTracer(otel),
	)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, chain)
	checks.RegisterCheck("ledger", chain.Health)

	readerOpts := []ledger.ResilientOption{
		ledger.WithBreaker(circuit.New("issuer_profile")),
		ledger.WithReaderLogger(log),
		ledger.WithReaderMetrics(m),
		ledger.WithReaderTracer(otel),
	}
	if redisClient != nil {
		readerOpts = append(readerOpts, ledger.WithProfileCache(ledger.NewRedisProfileCache(redisClient, cfg.ProfileCacheTTL)))
	}
	reader := ledger.NewResilientReader(chain, readerOpts...)

	auditPublisher, err := buildAudit(cfg, log, app, checks)
	if err != nil {
		return nil, err
	}

	var limiter domainHandler.RateLimiter = ratelimit.NewInMemoryStore()
	if redisClient != nil {
		limiter = ratelimit.NewRedisStore(redisClient)
	}

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.ServiceName, cfg.TokenTTL)

	auth := authService.New(st.profiles, tokens, authService.Config{
		ServiceName:   cfg.ServiceName,
		MessageMaxAge: cfg.MessageMaxAge,
	},
		authService.WithLogger(log),
		authService.WithAuditPublisher(auditPublisher),
		authService.WithMetrics(m),
	)
	verifier := credentialService.NewVerifier(reader,
		credentialService.WithLogger(log),
		credentialService.WithMetrics(m),
	)
	catalog := credentialService.NewCatalog(st.credentials, st.issuers, log)
	sharing := sharingService.New(st.links, catalog,
		sharingService.WithLogger(log),
		sharingService.WithAuditPublisher(auditPublisher),
		sharingService.WithMetrics(m),
	)
	domains := domainService.New(st.attempts, st.issuers, chain, domainService.Config{
		Cooldown:       cfg.DomainCooldown,
		ConfirmTimeout: cfg.TxConfirmTimeout,
	},
		domainService.WithLogger(log),
		domainService.WithAuditPublisher(auditPublisher),
		domainService.WithMetrics(m),
	)

	trusted, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	app.Router = httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        m,
		Gatherer:       registry,
		Sessions:       tokens,
		TrustedProxies: trusted,
		AllowedOrigins: cfg.AllowedOrigins,
		// Domain verification waits up to TxConfirmTimeout for the receipt.
		ConfirmingTimeout: confirmingDeadline(cfg),
	}, httptransport.Modules{
		Health: checks,
		Public: []httptransport.Registrar{
			authHandler.New(auth, log),
			credentialHandler.New(verifier, log),
			sharingHandler.New(sharing, log),
		},
		Confirming: []httptransport.Registrar{
			domainHandler.New(domains, limiter, log),
		},
	})
	return app, nil
}

func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger, app *application, checks *health.Handler) (*stores, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set; using in-memory stores")
		return &stores{
			profiles:    profileStore.New(),
			credentials: credentialStore.New(),
			issuers:     issuerStore.New(),
			links:       sharingStore.New(),
			attempts:    domainStore.New(),
		}, nil
	}

	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, pool)
	checks.RegisterCheck("database", pool.Health)

	db := pool.DB()
	return postgresStores(db), nil
}

func postgresStores(db *sql.DB) *stores {
	return &stores{
		profiles:    profileStore.NewPostgres(db),
		credentials: credentialStore.NewPostgres(db),
		issuers:     issuerStore.NewPostgres(db),
		links:       sharingStore.NewPostgres(db),
		attempts:    domainStore.NewPostgres(db),
	}
}

// buildAudit publishes to Kafka when brokers are configured and to the log
// otherwise. Events are buffered so a slow broker never delays a request.
func buildAudit(cfg config.Config, log *slog.Logger, app *application, checks *health.Handler) (*publisher.Publisher, error) {
	var sink audit.Sink = sinks.NewLogSink(log)
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := producer.New(producer.Config{
			Brokers: cfg.KafkaBrokers,
			Acks:    "all",
			Retries: 3,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("audit producer: %w", err)
		}
		app.closers = append(app.closers, prod)
		checks.RegisterCheck("kafka", prod.Healthy)
		sink = sinks.Fanout{sinks.NewKafkaSink(prod, cfg.AuditTopic), sink}
	}

	pub := publisher.New(sink, publisher.WithAsyncBuffer(auditBufferSize), publisher.WithLogger(log))
	app.closers = append(app.closers, closerFunc(func() error {
		pub.Close()
		return nil
	}))
	return pub, nil
}
