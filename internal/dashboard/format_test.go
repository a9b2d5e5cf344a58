package dashboard

import (
	"testing"

	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
)

func TestDefaultFormatters(t *testing.T) {
	f := DefaultFormatters()
	cases := []struct {
		key   string
		value float64
		want  string
	}{
		{dataset.KeyTotalRevenue, 6512000, "$6.51M"},
		{dataset.KeyAvgRevenue, 1850, "$1850"},
		{dataset.KeyActiveAgents, 3520, "3,520"},
		{dataset.KeySuccessRate, 96.8, "96.8%"},
		{dataset.KeyAvgResponseTime, 0.3, "0.3s"},
		{"unknown", 1250, "1,250"},
	}
	for _, tc := range cases {
		if got := f.Format(tc.key, tc.value); got != tc.want {
			t.Fatalf("Format(%s, %v) = %q, want %q", tc.key, tc.value, got, tc.want)
		}
	}
}

func TestFormatWithoutDefaultFallsBackToPlain(t *testing.T) {
	f := Formatters{}
	if got := f.Format("x", 12.5); got != "12.5" {
		t.Fatalf("unexpected plain format %q", got)
	}
}

func TestCompact(t *testing.T) {
	if got := Compact(428000); got != "428K" {
		t.Fatalf("expected 428K, got %q", got)
	}
	if got := Compact(6512000); got != "6.5M" {
		t.Fatalf("expected 6.5M, got %q", got)
	}
	if got := Compact(820); got != "820" {
		t.Fatalf("expected 820, got %q", got)
	}
}

func TestRenderMetricCard(t *testing.T) {
	up := RenderMetricCard(dataset.SummaryMetric{Title: "Active Agents", DisplayValue: "3,520", ChangePercent: 26.6, ColorToken: "blue", IconToken: "users"})
	if up.Direction != ui.DirectionUp || up.Glyph != "▲" || up.ChangeLabel != "26.6%" {
		t.Fatalf("unexpected up card: %+v", up)
	}
	if up.Value != "3,520" || up.Accent != "#3B82F6" {
		t.Fatalf("card should keep the supplied value and resolve the accent: %+v", up)
	}

	down := RenderMetricCard(dataset.SummaryMetric{Title: "Churn", DisplayValue: "1.4%", ChangePercent: -5.0, ColorToken: "nope", IconToken: "nope"})
	if down.Direction != ui.DirectionDown || down.Glyph != "▼" || down.ChangeLabel != "5.0%" {
		t.Fatalf("unexpected down card: %+v", down)
	}
	if down.Accent != ui.FallbackColor {
		t.Fatalf("unknown token should use fallback colour, got %s", down.Accent)
	}

	flat := RenderMetricCard(dataset.SummaryMetric{ChangePercent: 0})
	if flat.Direction != ui.DirectionUp || flat.ChangeLabel != "0.0%" {
		t.Fatalf("zero change should render as up: %+v", flat)
	}
}

func TestParseTimeRange(t *testing.T) {
	for _, raw := range []string{"3M", "6m", " 1y "} {
		if _, err := ParseTimeRange(raw); err != nil {
			t.Fatalf("ParseTimeRange(%q): %v", raw, err)
		}
	}
	if _, err := ParseTimeRange("2W"); err == nil {
		t.Fatal("expected error for 2W")
	}
}

func TestOnTimeRangeChangeIsIdempotent(t *testing.T) {
	prev := DefaultUIState()
	next, err := OnTimeRangeChange(prev, Range1Y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := OnTimeRangeChange(next, Range1Y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != again {
		t.Fatalf("expected same state, got %+v and %+v", next, again)
	}
	if prev.SelectedTimeRange != Range6M {
		t.Fatalf("previous state mutated: %+v", prev)
	}
	if _, err := OnTimeRangeChange(prev, "5Y"); err == nil {
		t.Fatal("expected invalid range error")
	}
}
