package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pinguard/internal/admin"
	jwttoken "pinguard/internal/jwt_token"
	"pinguard/internal/pinpolicy"
	pinhandler "pinguard/internal/pinpolicy/handler"
	pinmetrics "pinguard/internal/pinpolicy/metrics"
	"pinguard/internal/pinpolicy/service"
	"pinguard/internal/platform/config"
	"pinguard/internal/platform/httpserver"
	"pinguard/internal/platform/logger"
	platformmetrics "pinguard/internal/platform/metrics"
	httptransport "pinguard/internal/transport/http"
	"pinguard/pkg/platform/audit/publisher"
	"pinguard/pkg/platform/audit/store/memory"
	authmw "pinguard/pkg/platform/middleware/auth"
)

// main wires dependencies, exposes the HTTP router, and drains the audit
// publisher on shutdown. Policy logic lives in internal/pinpolicy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Level: cfg.LogLevel,
		Text:  !cfg.IsProduction(),
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	auditStore := memory.NewInMemoryStore()
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithAsyncBuffer(cfg.AuditBufferSize),
	)

	classifier := pinpolicy.NewClassifier(pinpolicy.WithMaxSequenceStep(cfg.MaxSequenceStep))
	pinService := service.New(classifier,
		service.WithLogger(log),
		service.WithMetrics(pinmetrics.New(reg)),
		service.WithAuditor(auditPublisher),
		service.WithBatchLimits(cfg.BatchMaxItems, cfg.BatchConcurrency),
	)

	var validator authmw.TokenValidator
	if cfg.AuthEnabled() {
		tokens := jwttoken.NewJWTService(cfg.ServiceTokenSigningKey, cfg.ServiceTokenIssuer, cfg.ServiceTokenAudience)
		validator = jwttoken.NewJWTServiceAdapter(tokens)
	} else {
		log.Warn("service token auth disabled; PIN routes are open", "env", cfg.Env)
	}

	deps := httptransport.Deps{
		Logger:         log,
		PINHandler:     pinhandler.New(pinService, log),
		TokenValidator: validator,
		AuthAuditor:    auditPublisher,
		AdminHandler:   admin.New(auditStore, log),
		AdminToken:     cfg.AdminAPIToken,
		HTTPMetrics:    platformmetrics.New(reg),
	}
	if cfg.MetricsEnabled {
		deps.Gatherer = reg
	}

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(deps))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting pinguard", "addr", cfg.Addr, "env", cfg.Env,
			"max_sequence_step", classifier.MaxSequenceStep(), "auth", cfg.AuthEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	if err := auditPublisher.Close(); err != nil {
		log.Error("failed to drain audit publisher", "error", err)
	}
	return shutdownErr
}
