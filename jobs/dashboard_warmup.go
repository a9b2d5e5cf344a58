package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/agentic-platform/insights/internal/dashboard"
	"github.com/agentic-platform/insights/internal/dashboard/ui"
	jobmetrics "github.com/agentic-platform/insights/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// DashboardBuilder is the part of the dashboard service the warmup needs.
type DashboardBuilder interface {
	Build(ctx context.Context, state dashboard.UIState) (ui.DashboardViewModel, error)
	Invalidate(ctx context.Context) (int64, error)
}

// DashboardWarmupJob pre-renders the dashboard for each time range.
type DashboardWarmupJob struct {
	Dashboard DashboardBuilder
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(builder DashboardBuilder, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Dashboard: builder,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	ranges, err := payload.TimeRanges()
	if err != nil {
		j.logger().Warn("dropping warmup with invalid range", slog.Any("error", err))
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskDashboardWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("requested_by", payload.RequestedBy))
	start := j.now()
	logger.Info("starting dashboard warmup", slog.Int("ranges", len(ranges)))

	if payload.Invalidate {
		ver, err := j.Dashboard.Invalidate(ctx)
		if err != nil {
			logger.Error("bump dashboard cache", slog.Any("error", err))
			return err
		}
		logger.Info("dashboard cache bumped", slog.Int64("version", ver))
	}

	for _, tr := range ranges {
		rangeCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		_, err := j.Dashboard.Build(rangeCtx, dashboard.UIState{SelectedTimeRange: tr})
		cancel()
		if err != nil {
			logger.Error("warm range", slog.String("range", string(tr)), slog.Any("error", err))
			return err
		}
		j.metrics().AddWarmed(string(tr), 1)
	}

	logger.Info("completed dashboard warmup", slog.Int("ranges", len(ranges)), slog.Duration("duration", j.now().Sub(start)))
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
