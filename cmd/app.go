package cmd

import (
	"github.com/assetforge/assetforge/internal/cache"
	"github.com/assetforge/assetforge/internal/config"
	"github.com/assetforge/assetforge/internal/logging"
	"github.com/assetforge/assetforge/internal/metrics"
	"github.com/assetforge/assetforge/internal/pipeline"
	"github.com/assetforge/assetforge/internal/service"
	"github.com/assetforge/assetforge/internal/tools"
)

// app is the wired object graph every subcommand starts from.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	metrics  *metrics.Metrics
	registry *tools.Registry
	cache    *cache.Cache
	runner   *pipeline.Runner
	service  *service.Service
}

// buildApp loads configuration and constructs the pipeline components
// in dependency order. The reset sweep, when configured together with
// pack mode, runs here so it happens before the first pack request.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})

	registry := tools.NewRegistry(cfg.Tools, logger)

	c, err := cache.New(cfg.OutDir, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Enabled && cfg.Reset {
		if err := c.Reset(); err != nil {
			return nil, err
		}
	}

	resolver, err := service.NewDirResolver(cfg.StaticRoots...)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	runner := pipeline.NewRunner(registry, logger, cfg.ToolTimeout)

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		registry: registry,
		cache:    c,
		runner:   runner,
		service: service.New(service.Options{
			Cache:    c,
			Runner:   runner,
			Resolver: resolver,
			Metrics:  m,
			Logger:   logger,
			Enabled:  cfg.Enabled,
		}),
	}, nil
}

// groups returns the declared asset groups, optionally narrowed to
// one by name.
func (a *app) groups(only string) ([]service.Group, error) {
	groups, err := service.GroupsFromConfig(a.cfg.Assets)
	if err != nil {
		return nil, err
	}
	if only == "" {
		return groups, nil
	}
	for _, g := range groups {
		if g.Name == only {
			return []service.Group{g}, nil
		}
	}
	return nil, &unknownGroupError{name: only}
}

type unknownGroupError struct{ name string }

func (e *unknownGroupError) Error() string {
	return "no asset group named " + e.name + " is declared"
}
