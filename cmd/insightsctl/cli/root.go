// Package cli implements the insightsctl operator commands.
package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agentic-platform/insights/internal/app"
	"github.com/agentic-platform/insights/internal/dashboard"
)

// ErrRedisRequired is returned by commands that talk to the queue or cache.
var ErrRedisRequired = errors.New("insightsctl: redis address required (--redis or REDIS_ADDR)")

type rootOptions struct {
	redisAddr     string
	filterByRange bool
	noColor       bool
	cfg           *app.Config
}

// NewRootCommand assembles the command tree. Each call returns a fresh tree so
// tests can run commands in isolation.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "insightsctl",
		Short:        "Operate the agent platform investor dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("redis") {
				cfg.RedisAddr = opts.redisAddr
			}
			if cmd.Flags().Changed("filter-by-range") {
				cfg.FilterByRange = opts.filterByRange
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.redisAddr, "redis", "", "Redis address, overrides REDIS_ADDR")
	root.PersistentFlags().BoolVar(&opts.filterByRange, "filter-by-range", false, "trim series to the selected time range")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newSummaryCommand(opts),
		newExportCommand(opts),
		newRenderCommand(opts),
		newWarmupCommand(opts),
		newCacheCommand(opts),
	)
	return root
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// service renders without the Redis cache so commands always see fresh data.
func (o *rootOptions) service(cmd *cobra.Command) (*dashboard.Service, error) {
	return app.NewDashboardService(cmd.Context(), o.cfg, o.logger(cmd), nil, nil)
}

func (o *rootOptions) build(cmd *cobra.Command, raw string) (*dashboard.Service, dashboard.UIState, error) {
	tr, err := dashboard.ParseTimeRange(raw)
	if err != nil {
		return nil, dashboard.UIState{}, err
	}
	svc, err := o.service(cmd)
	if err != nil {
		return nil, dashboard.UIState{}, err
	}
	return svc, dashboard.UIState{SelectedTimeRange: tr}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
