package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/agentic-platform/insights/internal/dashboard"
	"github.com/agentic-platform/insights/internal/dataset"
)

// NewDashboardService wires the compiled-in dataset, the renderer and the
// render cache. A nil client runs the service without caching.
func NewDashboardService(ctx context.Context, cfg *Config, logger *slog.Logger, observer dashboard.Observer, client *redis.Client) (*dashboard.Service, error) {
	provider, err := dataset.NewStaticProvider(dataset.Sample())
	if err != nil {
		return nil, err
	}
	ds, err := provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	renderer, err := dashboard.NewRenderer(ds, dashboard.Options{
		Logger:        logger,
		Observer:      observer,
		FilterByRange: cfg.FilterByRange,
	})
	if err != nil {
		return nil, err
	}

	var cache *dashboard.Cache
	if client != nil {
		cache = dashboard.NewCache(client, cfg.CacheTTL)
	}
	return dashboard.NewService(provider, renderer, cache, logger), nil
}
