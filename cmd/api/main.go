package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/seniordesign-sys/ideagen-backend/config"
	"github.com/seniordesign-sys/ideagen-backend/internal/api/http/routes"
	"github.com/seniordesign-sys/ideagen-backend/internal/bootstrap"
	cronjob "github.com/seniordesign-sys/ideagen-backend/internal/cron"
	ideashttp "github.com/seniordesign-sys/ideagen-backend/internal/ideas/http"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/repository"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/service"
	"github.com/seniordesign-sys/ideagen-backend/internal/llm"
	"github.com/seniordesign-sys/ideagen-backend/internal/logging"
)

const serviceName = "seniordesign-ideagen"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	logging.SetBase(zl)
	logger := logging.NewLogger(context.Background())

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenKV(ctx, cfg)
	if err != nil {
		logger.LogError("startup", err)
		log.Fatalf("kv: %v", err)
	}
	defer func() { _ = closeStore() }()

	projects := repository.NewProjectStore(store)
	n := projects.Restore(ctx)
	logger.LogInfof("startup", "restored %d projects from %s backend", n, cfg.KV.Backend)

	settings := repository.NewSettingsStore(store, cfg.Model.DefaultModel)
	metrics := service.NewMetrics()
	model := llm.NewClient(cfg.Model.BaseURL, cfg.Model.Timeout,
		llm.WithRateLimit(cfg.Model.RateLimit, cfg.Model.Burst))

	wizardCfg := service.Config{
		DefaultModel:     cfg.Model.DefaultModel,
		MaxTokens:        cfg.Model.MaxTokens,
		Timeout:          cfg.Model.Timeout,
		ProgressInterval: cfg.Wizard.ProgressInterval,
	}
	sessions := ideashttp.NewSessionRegistry(func(ctx context.Context) *service.Wizard {
		return service.NewWizard(ctx, model, settings, projects, wizardCfg, service.WithMetrics(metrics))
	})

	sweeper := cronjob.NewScheduler(sessions, cfg.Wizard.SweepSpec, cfg.Wizard.SessionIdleTTL)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("cron: %v", err)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Backend:        cfg.KV.Backend,
		Store:          store,
		V1: routes.V1Deps{
			Sessions: sessions,
			Projects: projects,
			Settings: settings,
			Metrics:  metrics,
			Version:  cfg.App.Version,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.LogInfof("startup", "listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError("listen", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.LogInfo("shutdown", "shutting down")

	<-sweeper.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError("shutdown", err)
	}
}
