package perf

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agentic-platform/insights/internal/dashboard"
	dashboardhttp "github.com/agentic-platform/insights/internal/dashboard/http"
	"github.com/agentic-platform/insights/internal/dataset"
	"github.com/agentic-platform/insights/internal/view"
)

func newService(tb testing.TB) *dashboard.Service {
	tb.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := dataset.MustSample()
	ds, err := provider.Dataset(context.Background())
	if err != nil {
		tb.Fatalf("dataset: %v", err)
	}
	renderer, err := dashboard.NewRenderer(ds, dashboard.Options{Logger: logger})
	if err != nil {
		tb.Fatalf("renderer: %v", err)
	}
	return dashboard.NewService(provider, renderer, nil, logger)
}

func TestUncachedRenderLatencyTarget(t *testing.T) {
	svc := newService(t)
	samples := make([]time.Duration, 0, 20)
	for i := 0; i < cap(samples); i++ {
		start := time.Now()
		if _, err := svc.Build(context.Background(), dashboard.DefaultUIState()); err != nil {
			t.Fatalf("build: %v", err)
		}
		samples = append(samples, time.Since(start))
	}
	if p95 := percentile95(samples); p95 > 250*time.Millisecond {
		t.Fatalf("render latency regression: p95=%s threshold=250ms", p95)
	}
}

func TestPercentile95(t *testing.T) {
	samples := []time.Duration{5, 1, 4, 2, 3, 10, 9, 8, 7, 6}
	if got := percentile95(samples); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
	if got := percentile95(nil); got != 0 {
		t.Fatalf("expected 0 for no samples, got %d", got)
	}
}

func BenchmarkRender(b *testing.B) {
	svc := newService(b)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Build(ctx, dashboard.UIState{SelectedTimeRange: dashboard.Range1Y}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkServeDashboard(b *testing.B) {
	engine, err := view.NewEngine()
	if err != nil {
		b.Fatal(err)
	}
	h := dashboardhttp.NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), newService(b), engine)
	r := chi.NewRouter()
	h.MountRoutes(r)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		if rr.Code != http.StatusOK {
			b.Fatalf("status %d", rr.Code)
		}
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	return sorted[index]
}
