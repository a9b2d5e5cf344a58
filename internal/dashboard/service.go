package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
)

// sharedBuildTimeout bounds a render shared by concurrent callers.
const sharedBuildTimeout = 15 * time.Second

// Service coordinates the dataset provider, the renderer and the cache layer.
type Service struct {
	provider dataset.Provider
	renderer *Renderer
	cache    *Cache
	logger   *slog.Logger
	group    singleflight.Group
}

// NewService wires a provider with a renderer and an optional cache.
func NewService(provider dataset.Provider, renderer *Renderer, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, renderer: renderer, cache: cache, logger: logger}
}

// Dataset returns the provider tables.
func (s *Service) Dataset(ctx context.Context) (dataset.Dataset, error) {
	return s.provider.Dataset(ctx)
}

// Renderer exposes the configured renderer.
func (s *Service) Renderer() *Renderer {
	return s.renderer
}

// Build returns the view model for state, from cache when available.
// Concurrent builds of the same key share one render; each caller gets its
// own copy of the result. The shared render is detached from the caller's
// cancellation so one disconnecting client does not fail the others.
func (s *Service) Build(ctx context.Context, state UIState) (ui.DashboardViewModel, error) {
	if !state.SelectedTimeRange.Valid() {
		return ui.DashboardViewModel{}, ErrInvalidTimeRange
	}
	version := s.provider.Version()
	key, err := s.cache.BuildKey(ctx, viewModelKey(version, state.SelectedTimeRange, s.renderer.FiltersByRange())...)
	if err != nil {
		s.logger.Warn("dashboard cache unavailable", slog.Any("error", err))
		return s.render(ctx, state)
	}
	ch := s.group.DoChan(key, func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedBuildTimeout)
		defer cancel()
		return FetchJSON(sharedCtx, s.cache, key, func(ctx context.Context) (ui.DashboardViewModel, error) {
			return s.render(ctx, state)
		})
	})
	select {
	case <-ctx.Done():
		return ui.DashboardViewModel{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var malformed *dataset.MalformedRowError
			if errors.As(res.Err, &malformed) {
				return ui.DashboardViewModel{}, res.Err
			}
			if err := ctx.Err(); err != nil {
				return ui.DashboardViewModel{}, err
			}
			s.logger.Warn("dashboard cache fetch failed", slog.String("key", key), slog.Any("error", res.Err))
			return s.render(ctx, state)
		}
		return res.Val.(ui.DashboardViewModel).Clone(), nil
	}
}

// Warm renders and caches every time range. It returns the number of ranges
// built.
func (s *Service) Warm(ctx context.Context) (int, error) {
	built := 0
	for _, tr := range TimeRanges() {
		if _, err := s.Build(ctx, UIState{SelectedTimeRange: tr}); err != nil {
			return built, err
		}
		built++
	}
	return built, nil
}

// Invalidate bumps the cache version so the next Build renders afresh.
func (s *Service) Invalidate(ctx context.Context) (int64, error) {
	return s.cache.Bump(ctx)
}

func (s *Service) render(ctx context.Context, state UIState) (ui.DashboardViewModel, error) {
	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return ui.DashboardViewModel{}, err
	}
	vm, err := s.renderer.Render(ctx, ds, state)
	if err != nil {
		return ui.DashboardViewModel{}, err
	}
	vm.DatasetVersion = s.provider.Version()
	return vm, nil
}
