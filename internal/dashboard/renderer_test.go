package dashboard

import (
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-platform/insights/internal/dashboard/svg"
	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
)

type recordingObserver struct {
	mu          sync.Mutex
	unavailable []string
	violations  []string
}

func (o *recordingObserver) ChartUnavailable(chart string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unavailable = append(o.unavailable, chart)
}

func (o *recordingObserver) InvariantViolated(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.violations = append(o.violations, name)
}

type failingPie struct {
	svg.Renderer
}

func (failingPie) Pie(int, int, []svg.Slice, svg.PieOpts) (template.HTML, error) {
	return "", errors.New("pie exploded")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRenderer(t *testing.T, ds dataset.Dataset, opts Options) *Renderer {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	r, err := NewRenderer(ds, opts)
	require.NoError(t, err)
	return r
}

func TestRenderPointCountsMatchRows(t *testing.T) {
	ds := dataset.Sample()
	r := newTestRenderer(t, ds, Options{})

	vm, err := r.Render(context.Background(), ds, DefaultUIState())
	require.NoError(t, err)
	require.Len(t, vm.Charts, 4)

	adoption, ok := vm.Chart(ChartAdoption)
	require.True(t, ok)
	assert.Equal(t, 2*len(ds.Adoption), adoption.Points())
	assert.Equal(t, 2*len(ds.Adoption), strings.Count(string(adoption.SVG), `class="point"`))

	revenue, _ := vm.Chart(ChartRevenue)
	assert.Equal(t, 2*len(ds.Revenue), revenue.Points())
	assert.Equal(t, 2*len(ds.Revenue), strings.Count(string(revenue.SVG), `class="bar"`))

	perf, _ := vm.Chart(ChartPerformance)
	assert.Equal(t, len(ds.Performance), perf.Points())
	assert.Equal(t, len(ds.Performance), strings.Count(string(perf.SVG), `class="point"`))

	pie, _ := vm.Chart(ChartTaskTypes)
	assert.Equal(t, len(ds.TaskTypes), pie.Points())
	assert.Equal(t, len(ds.TaskTypes), strings.Count(string(pie.SVG), `class="wedge"`))
}

func TestPieLabelsCarrySharesSummingToHundred(t *testing.T) {
	ds := dataset.Sample()
	r := newTestRenderer(t, ds, Options{})

	vm, err := r.Render(context.Background(), ds, DefaultUIState())
	require.NoError(t, err)
	pie, _ := vm.Chart(ChartTaskTypes)

	total := 0.0
	for _, p := range pie.Series[0].Points {
		idx := strings.LastIndex(p.Text, ": ")
		require.Greater(t, idx, 0, p.Text)
		share, err := strconv.ParseFloat(strings.TrimSuffix(p.Text[idx+2:], "%"), 64)
		require.NoError(t, err)
		total += share
	}
	assert.InDelta(t, 100, total, dataset.ShareTolerance)
	assert.Equal(t, "Data Analysis: 35%", pie.Series[0].Points[0].Text)
	assert.Empty(t, vm.Warnings)
}

func TestShareDriftWarnsWithoutFailing(t *testing.T) {
	ds := dataset.Sample()
	ds.TaskTypes[0].Share = 50
	obs := &recordingObserver{}
	r := newTestRenderer(t, ds, Options{Observer: obs})

	vm, err := r.Render(context.Background(), ds, DefaultUIState())
	require.NoError(t, err)
	require.Len(t, vm.Warnings, 1)
	assert.Contains(t, vm.Warnings[0], "task type shares")
	assert.Equal(t, []string{"task type shares"}, obs.violations)
	pie, _ := vm.Chart(ChartTaskTypes)
	assert.False(t, pie.Unavailable)
}

func TestPerformanceDomainIsPinned(t *testing.T) {
	ds := dataset.Sample()
	ds.Performance[0].SuccessRate = 40
	r := newTestRenderer(t, ds, Options{})

	vm, err := r.Render(context.Background(), ds, DefaultUIState())
	require.NoError(t, err)
	perf, _ := vm.Chart(ChartPerformance)
	require.NotNil(t, perf.DomainMin)
	require.NotNil(t, perf.DomainMax)
	assert.Equal(t, 85.0, *perf.DomainMin)
	assert.Equal(t, 100.0, *perf.DomainMax)
	assert.Contains(t, string(perf.SVG), `data-min="85" data-max="100"`)

	adoption, _ := vm.Chart(ChartAdoption)
	assert.Nil(t, adoption.DomainMin)
}

func TestRangeRoundTripLeavesDataUnchanged(t *testing.T) {
	ds := dataset.Sample()
	r := newTestRenderer(t, ds, Options{})
	ctx := context.Background()

	first, err := r.Render(ctx, ds, DefaultUIState())
	require.NoError(t, err)

	state, err := OnTimeRangeChange(DefaultUIState(), Range3M)
	require.NoError(t, err)
	mid, err := r.Render(ctx, ds, state)
	require.NoError(t, err)
	assert.Equal(t, "3M", mid.TimeRange)
	assert.Equal(t, first.Charts, mid.Charts)

	state, err = OnTimeRangeChange(state, Range6M)
	require.NoError(t, err)
	last, err := r.Render(ctx, ds, state)
	require.NoError(t, err)
	assert.Equal(t, first, last)
}

func TestRangeFilterTrimsSeriesWhenEnabled(t *testing.T) {
	ds := dataset.Sample()
	r := newTestRenderer(t, ds, Options{FilterByRange: true})

	vm, err := r.Render(context.Background(), ds, UIState{SelectedTimeRange: Range3M})
	require.NoError(t, err)
	assert.True(t, vm.RangeFiltered)
	adoption, _ := vm.Chart(ChartAdoption)
	assert.Equal(t, 6, adoption.Points())
	assert.Equal(t, "Apr", adoption.Series[0].Points[0].Label)

	pie, _ := vm.Chart(ChartTaskTypes)
	assert.Equal(t, 4, pie.Points())

	vm, err = r.Render(context.Background(), ds, UIState{SelectedTimeRange: Range1Y})
	require.NoError(t, err)
	adoption, _ = vm.Chart(ChartAdoption)
	assert.Equal(t, 12, adoption.Points())
}

func TestChartFailureMarksRegionUnavailable(t *testing.T) {
	ds := dataset.Sample()
	obs := &recordingObserver{}
	r := newTestRenderer(t, ds, Options{Charts: failingPie{}, Observer: obs})

	vm, err := r.Render(context.Background(), ds, DefaultUIState())
	require.NoError(t, err)
	pie, _ := vm.Chart(ChartTaskTypes)
	assert.True(t, pie.Unavailable)
	assert.Empty(t, pie.SVG)
	assert.Equal(t, []string{ChartTaskTypes}, obs.unavailable)

	line, _ := vm.Chart(ChartAdoption)
	assert.False(t, line.Unavailable)
	assert.NotEmpty(t, line.SVG)
}

func TestNewRendererRejectsUnknownField(t *testing.T) {
	layout := DefaultLayout()
	layout[1].Fields = append(layout[1].Fields, FieldSpec{Key: "profit", Label: "Profit"})

	_, err := NewRenderer(dataset.Sample(), Options{Layout: layout, Logger: quietLogger()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrMalformedRow))
	var malformed *dataset.MalformedRowError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "revenue", malformed.Series)
	assert.Equal(t, "profit", malformed.Field)
}

func TestRenderRejectsInvalidState(t *testing.T) {
	ds := dataset.Sample()
	r := newTestRenderer(t, ds, Options{})
	_, err := r.Render(context.Background(), ds, UIState{SelectedTimeRange: "2W"})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestRenderBuildsCardsAndHighlights(t *testing.T) {
	ds := dataset.Sample()
	r := newTestRenderer(t, ds, Options{})

	vm, err := r.Render(context.Background(), ds, DefaultUIState())
	require.NoError(t, err)
	require.Len(t, vm.Cards, 4)
	assert.Equal(t, "Total Revenue", vm.Cards[3].Title)
	assert.Equal(t, "$6.51M", vm.Cards[3].Value)

	require.Len(t, vm.Highlights, 3)
	assert.Equal(t, "428K", vm.Highlights[0].Value)
	assert.Equal(t, "Tasks Completed (June)", vm.Highlights[0].Caption)
	assert.Equal(t, "0.3s", vm.Highlights[1].Value)
	assert.Equal(t, "1.4%", vm.Highlights[2].Value)

	require.Len(t, vm.RangeOptions, 3)
	assert.True(t, vm.RangeOptions[1].Selected)
	assert.Equal(t, ui.ChartBar, vm.Charts[1].Kind)
}

func TestRevenueTextUsesFieldFormatters(t *testing.T) {
	ds := dataset.Sample()
	r := newTestRenderer(t, ds, Options{})

	vm, err := r.Render(context.Background(), ds, DefaultUIState())
	require.NoError(t, err)
	revenue, _ := vm.Chart(ChartRevenue)
	assert.Equal(t, "$6.51M", revenue.Series[0].Points[5].Text)
	assert.Equal(t, "$1850", revenue.Series[1].Points[5].Text)
	assert.Contains(t, string(revenue.SVG), "<title>$6.51M</title>")
}

func TestBarTooltipsFollowFieldKeyNotLabel(t *testing.T) {
	ds := dataset.Sample()
	layout := DefaultLayout()
	for i := range layout[1].Fields {
		layout[1].Fields[i].Label = "Revenue"
	}
	r := newTestRenderer(t, ds, Options{Layout: layout})

	vm, err := r.Render(context.Background(), ds, DefaultUIState())
	require.NoError(t, err)
	revenue, _ := vm.Chart(ChartRevenue)
	out := string(revenue.SVG)
	assert.Contains(t, out, "<title>$6.51M</title>")
	assert.Contains(t, out, "<title>$1850</title>")
}
