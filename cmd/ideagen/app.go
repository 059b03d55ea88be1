package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/seniordesign-sys/ideagen-backend/config"
	"github.com/seniordesign-sys/ideagen-backend/internal/bootstrap"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/repository"
	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/service"
	"github.com/seniordesign-sys/ideagen-backend/internal/llm"
	"github.com/seniordesign-sys/ideagen-backend/internal/logging"
)

type rootOptions struct {
	backend  string
	dataFile string
	verbose  bool
}

// app is the wiring shared by every subcommand.
type app struct {
	cfg      *config.Config
	projects *repository.ProjectStore
	settings *repository.SettingsStore
	close    func() error
}

// newModelClient is replaced in tests.
var newModelClient = func(cfg *config.Config) service.ModelClient {
	return llm.NewClient(cfg.Model.BaseURL, cfg.Model.Timeout,
		llm.WithRateLimit(cfg.Model.RateLimit, cfg.Model.Burst))
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	switch {
	case opts.backend != "":
		cfg.KV.Backend = opts.backend
	case os.Getenv("KV_BACKEND") == "":
		cfg.KV.Backend = config.BackendFile
	}
	if opts.dataFile != "" {
		cfg.KV.FilePath = opts.dataFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opts.verbose {
		zl, err := logging.New("development", "debug")
		if err != nil {
			return nil, err
		}
		logging.SetBase(zl)
	} else {
		logging.SetBase(zap.NewNop())
	}

	store, closeStore, err := bootstrap.OpenKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	projects := repository.NewProjectStore(store)
	projects.Restore(ctx)

	return &app{
		cfg:      cfg,
		projects: projects,
		settings: repository.NewSettingsStore(store, cfg.Model.DefaultModel),
		close:    closeStore,
	}, nil
}
