package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/agentic-platform/insights/internal/dashboard"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup renders the dashboard view models into the cache.
	TaskDashboardWarmup = "dashboard:warmup"
)

// DashboardWarmupPayload selects what a warmup run renders. An empty Ranges
// list warms every selectable range.
type DashboardWarmupPayload struct {
	Ranges      []string `json:"ranges,omitempty"`
	Invalidate  bool     `json:"invalidate,omitempty"`
	RequestedBy string   `json:"requested_by,omitempty"`
}

// TimeRanges validates the requested ranges.
func (p DashboardWarmupPayload) TimeRanges() ([]dashboard.TimeRange, error) {
	if len(p.Ranges) == 0 {
		return dashboard.TimeRanges(), nil
	}
	out := make([]dashboard.TimeRange, 0, len(p.Ranges))
	for _, raw := range p.Ranges {
		tr, err := dashboard.ParseTimeRange(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

// NewDashboardWarmupTask constructs an Asynq task with a unique id so
// repeated manual requests are traceable in the queue.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	if _, err := payload.TimeRanges(); err != nil {
		return nil, fmt.Errorf("dashboard warmup: %w", err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data,
		asynq.TaskID(uuid.NewString()),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	), nil
}

// NewScheduledWarmupTask is the cron variant. Scheduled entries cannot carry a
// fixed task id, so none is set.
func NewScheduledWarmupTask() (*asynq.Task, error) {
	data, err := json.Marshal(DashboardWarmupPayload{RequestedBy: "scheduler"})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
