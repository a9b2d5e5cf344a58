package cli

import (
	"fmt"
	"os/user"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/agentic-platform/insights/internal/dashboard"
	"github.com/agentic-platform/insights/internal/platform/cache"
	"github.com/agentic-platform/insights/jobs"
)

func newWarmupCommand(opts *rootOptions) *cobra.Command {
	var ranges []string
	var invalidate bool
	cmd := &cobra.Command{
		Use:   "warmup",
		Short: "Enqueue a dashboard warmup on the worker queue",
		Example: `  insightsctl warmup
  insightsctl warmup --range 3M --range 1Y --invalidate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.RedisAddr == "" {
				return ErrRedisRequired
			}
			payload := jobs.DashboardWarmupPayload{
				Ranges:      ranges,
				Invalidate:  invalidate,
				RequestedBy: requester(),
			}
			if _, err := payload.TimeRanges(); err != nil {
				return err
			}
			client := jobs.NewClient(asynq.RedisClientOpt{Addr: opts.cfg.RedisAddr})
			defer func() { _ = client.Close() }()

			info, err := client.EnqueueDashboardWarmup(commandContext(cmd), payload)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s on %s\n", info.ID, info.Queue)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&ranges, "range", nil, "ranges to warm, all when omitted")
	cmd.Flags().BoolVar(&invalidate, "invalidate", false, "bump the cache version before warming")
	return cmd
}

func newCacheCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered dashboard cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "bump",
		Short: "Invalidate every cached view model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.RedisAddr == "" {
				return ErrRedisRequired
			}
			ctx := commandContext(cmd)
			client, err := cache.New(ctx, opts.cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			ver, err := dashboard.NewCache(client, opts.cfg.CacheTTL).Bump(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cache version %d\n", ver)
			return err
		},
	})
	return cmd
}

func requester() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "cli:" + u.Username
	}
	return "cli"
}
