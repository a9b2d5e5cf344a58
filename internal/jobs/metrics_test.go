package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if err := m.Track("dashboard:warmup").End(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := m.Track("dashboard:warmup").End(boom); !errors.Is(err, boom) {
		t.Fatalf("expected error passthrough, got %v", err)
	}

	if got := testutil.ToFloat64(m.runs.WithLabelValues("dashboard:warmup", "success")); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("dashboard:warmup")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestAddWarmedIgnoresEmptyRuns(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.AddWarmed("6M", 0)
	m.AddWarmed("6M", 1)
	if got := testutil.ToFloat64(m.warmed.WithLabelValues("6M")); got != 1 {
		t.Fatalf("expected 1 warmed view, got %v", got)
	}

	var nilMetrics *Metrics
	nilMetrics.AddWarmed("3M", 4)
	if err := nilMetrics.Track("x").End(nil); err != nil {
		t.Fatalf("nil tracker should pass through, got %v", err)
	}
}
