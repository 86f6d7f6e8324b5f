package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"agentreg/internal/application/eligibility"
	apphandler "agentreg/internal/application/handler"
	appmetrics "agentreg/internal/application/metrics"
	appservice "agentreg/internal/application/service"
	dochandler "agentreg/internal/documents/handler"
	docmetrics "agentreg/internal/documents/metrics"
	docservice "agentreg/internal/documents/service"
	"agentreg/internal/documents/validator"
	httpapi "agentreg/internal/http"
	jwttoken "agentreg/internal/jwt_token"
	"agentreg/internal/notification"
	"agentreg/internal/payment/gateway"
	payhandler "agentreg/internal/payment/handler"
	paymetrics "agentreg/internal/payment/metrics"
	payservice "agentreg/internal/payment/service"
	"agentreg/internal/platform/config"
	"agentreg/internal/platform/httpserver"
	"agentreg/internal/platform/logger"
	"agentreg/internal/platform/metrics"
	resumehandler "agentreg/internal/resume/handler"
	resumemetrics "agentreg/internal/resume/metrics"
	resumeservice "agentreg/internal/resume/service"
)

// main wires dependencies, exposes the HTTP router and owns the server
// lifecycle. Business logic lives in the internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backends.Close()

	notifier := notification.NewBestEffort(backends.notifier(log), log)
	sessions := jwttoken.NewJWTService(cfg.Resume.SigningKey, cfg.Resume.SessionTTL)

	apps := appservice.New(backends.apps, backends.docs, backends.names,
		appservice.WithLogger(log),
		appservice.WithMetrics(appmetrics.New()),
		appservice.WithNotifier(notifier),
		appservice.WithRules(eligibility.Rules{MatureEntryAge: cfg.Rules.MatureEntryAge}),
		appservice.WithFees(appservice.FeeSchedule{
			Required:     true,
			Individual:   cfg.Rules.FeeIndividual,
			Organization: cfg.Rules.FeeOrg,
			Currency:     cfg.Rules.FeeCurrency,
		}),
	)

	docs := docservice.New(backends.docs, backends.blobs(cfg), apps,
		docservice.WithLogger(log),
		docservice.WithMetrics(docmetrics.New()),
		docservice.WithValidator(validator.New(validator.WithMaxBytes(cfg.Rules.MaxUploadBytes))),
	)

	resume := resumeservice.New(backends.codes, apps, sessions,
		resumeservice.WithLogger(log),
		resumeservice.WithMetrics(resumemetrics.New()),
		resumeservice.WithNotifier(notifier),
		resumeservice.WithLimits(cfg.Resume.OTPTTL, cfg.Resume.OTPMaxAttempts),
	)

	paynow := gateway.NewPaynow(gateway.Config{
		InitiateURL:    cfg.Payment.InitiateURL,
		IntegrationID:  cfg.Payment.IntegrationID,
		IntegrationKey: cfg.Payment.IntegrationKey,
		ReturnURL:      cfg.Payment.ReturnURL,
		ResultURL:      cfg.Payment.CallbackURL,
		Timeout:        cfg.Payment.Timeout,
	}, gateway.WithLogger(log))
	if !paynow.Configured() {
		log.Warn("payment gateway not configured; online payment is disabled")
	}
	payments := payservice.New(backends.payments, paynow, apps,
		payservice.WithLogger(log),
		payservice.WithMetrics(paymetrics.New()),
	)

	appHTTP := apphandler.New(apps, sessions, log)
	docHTTP := dochandler.New(docs, log)
	resumeHTTP := resumehandler.New(resume, log)
	payHTTP := payhandler.New(payments, log)

	if cfg.Server.AdminToken == "" {
		log.Warn("ADMIN_API_TOKEN not set; staff endpoints will refuse every request")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:      log,
		HTTPMetrics: metrics.New(),
		AdminToken:  cfg.Server.AdminToken,
		Sessions:    sessions,
		Public:      []httpapi.PublicRoutes{appHTTP, resumeHTTP},
		Applicant:   []httpapi.ApplicantRoutes{appHTTP, docHTTP, payHTTP},
		Admin:       []httpapi.AdminRoutes{appHTTP, docHTTP},
		Gateway:     []httpapi.GatewayRoutes{payHTTP},
		Health:      backends.healthChecks(),
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting agentreg", "addr", cfg.Server.Addr, "storage", backends.storageMode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
