package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-platform/insights/internal/dashboard/ui"
)

// TimeRange is the window offered by the range selector.
type TimeRange string

const (
	Range3M TimeRange = "3M"
	Range6M TimeRange = "6M"
	Range1Y TimeRange = "1Y"
)

// ErrInvalidTimeRange is returned for selector values outside 3M/6M/1Y.
var ErrInvalidTimeRange = errors.New("dashboard: invalid time range")

var rangeOrder = []TimeRange{Range3M, Range6M, Range1Y}

var rangeLabels = map[TimeRange]string{
	Range3M: "Last 3 Months",
	Range6M: "Last 6 Months",
	Range1Y: "Last Year",
}

var rangeMonths = map[TimeRange]int{
	Range3M: 3,
	Range6M: 6,
	Range1Y: 12,
}

// TimeRanges lists the selectable ranges in display order.
func TimeRanges() []TimeRange {
	return append([]TimeRange(nil), rangeOrder...)
}

// ParseTimeRange accepts the selector values, case-insensitively.
func ParseTimeRange(raw string) (TimeRange, error) {
	r := TimeRange(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := rangeMonths[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, raw)
	}
	return r, nil
}

// Valid reports whether r is one of the selectable ranges.
func (r TimeRange) Valid() bool {
	_, ok := rangeMonths[r]
	return ok
}

// Months is the number of trailing periods the range covers.
func (r TimeRange) Months() int {
	return rangeMonths[r]
}

// Label is the human text shown in the selector.
func (r TimeRange) Label() string {
	return rangeLabels[r]
}

// UIState is the transient, per-view state of the dashboard. It is passed to
// the renderer explicitly and never persisted.
type UIState struct {
	SelectedTimeRange TimeRange `json:"selectedTimeRange"`
}

// DefaultUIState selects the six month window.
func DefaultUIState() UIState {
	return UIState{SelectedTimeRange: Range6M}
}

// OnTimeRangeChange replaces the selected range and returns the new state.
// The previous state is left untouched.
func OnTimeRangeChange(_ UIState, next TimeRange) (UIState, error) {
	if !next.Valid() {
		return UIState{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, next)
	}
	return UIState{SelectedTimeRange: next}, nil
}

func rangeOptions(selected TimeRange) []ui.TimeRangeOption {
	opts := make([]ui.TimeRangeOption, 0, len(rangeOrder))
	for _, r := range rangeOrder {
		opts = append(opts, ui.TimeRangeOption{Value: string(r), Label: r.Label(), Selected: r == selected})
	}
	return opts
}
