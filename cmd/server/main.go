package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillchain/internal/platform/config"
	"skillchain/internal/platform/logger"
	"skillchain/pkg/platform/httputil"
)

const (
	// confirmHeadroom is added to the ledger confirmation timeout for every
	// deadline that must outlast a domain verification request.
	confirmHeadroom = 30 * time.Second
	minShutdown     = 15 * time.Second
)

// confirmingDeadline bounds a request that waits for ledger confirmation.
func confirmingDeadline(cfg config.Config) time.Duration {
	return cfg.TxConfirmTimeout + confirmHeadroom
}

// shutdownTimeout lets in-flight confirmations finish and record their
// result before the process exits.
func shutdownTimeout(cfg config.Config) time.Duration {
	return max(confirmingDeadline(cfg), minShutdown)
}

// main loads configuration, wires the application and runs the HTTP server
// until SIGINT or SIGTERM. Business logic lives in the internal packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	httputil.ExposeErrorDetails(!cfg.IsProduction())

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing skillchain",
		"addr", cfg.Addr,
		"env", cfg.Env,
	)

	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      confirmingDeadline(cfg),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully", "timeout", shutdownTimeout(cfg))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
