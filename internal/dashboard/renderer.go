package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentic-platform/insights/internal/dashboard/svg"
	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
)

// Page headings.
const (
	Heading    = "Agentic Platform"
	Subheading = "Investor Performance Dashboard"
)

// Observer receives render anomalies. Implementations must be safe for
// concurrent use.
type Observer interface {
	ChartUnavailable(chart string)
	InvariantViolated(name string)
}

// Options configures a Renderer. Zero values pick the investor dashboard
// defaults.
type Options struct {
	Layout        Layout
	Formatters    *Formatters
	Charts        ui.ChartRenderer
	Logger        *slog.Logger
	Observer      Observer
	FilterByRange bool
	Width         int
	Height        int
}

// Renderer turns a dataset and a UI state into a view model.
type Renderer struct {
	layout     Layout
	formatters Formatters
	charts     ui.ChartRenderer
	logger     *slog.Logger
	observer   Observer
	filter     bool
	width      int
	height     int
}

// NewRenderer binds the layout against ds once. A field the dataset does not
// expose fails here, before any request is served.
func NewRenderer(ds dataset.Dataset, opts Options) (*Renderer, error) {
	r := &Renderer{
		layout:     opts.Layout,
		formatters: DefaultFormatters(),
		charts:     opts.Charts,
		logger:     opts.Logger,
		observer:   opts.Observer,
		filter:     opts.FilterByRange,
		width:      opts.Width,
		height:     opts.Height,
	}
	if r.layout == nil {
		r.layout = DefaultLayout()
	}
	if opts.Formatters != nil {
		r.formatters = *opts.Formatters
	}
	if r.charts == nil {
		r.charts = svg.Renderer{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.width <= 0 {
		r.width = svg.DefaultWidth
	}
	if r.height <= 0 {
		r.height = svg.DefaultHeight
	}
	if err := r.layout.Validate(ds); err != nil {
		return nil, err
	}
	return r, nil
}

// Layout returns the chart layout the renderer was built with.
func (r *Renderer) Layout() Layout {
	return append(Layout(nil), r.layout...)
}

// Formatters returns the display rules of the renderer.
func (r *Renderer) Formatters() Formatters {
	return r.formatters
}

// FiltersByRange reports whether the selected range trims the series.
func (r *Renderer) FiltersByRange() bool {
	return r.filter
}

// Render builds the full view model. It has no side effects besides logging
// and observer callbacks. A chart whose SVG cannot be produced is marked
// unavailable; only malformed data is returned as an error.
func (r *Renderer) Render(ctx context.Context, ds dataset.Dataset, state UIState) (ui.DashboardViewModel, error) {
	if !state.SelectedTimeRange.Valid() {
		return ui.DashboardViewModel{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, state.SelectedTimeRange)
	}
	if r.filter {
		ds = TrimToRange(ds, state.SelectedTimeRange)
	}

	vm := ui.DashboardViewModel{
		Heading:       Heading,
		Subheading:    Subheading,
		TimeRange:     string(state.SelectedTimeRange),
		RangeOptions:  rangeOptions(state.SelectedTimeRange),
		RangeFiltered: r.filter,
	}
	for _, metric := range ds.Summary {
		vm.Cards = append(vm.Cards, RenderMetricCard(metric))
	}

	if err := dataset.CheckShares(ds.TaskTypes); err != nil {
		var violation *dataset.InvariantViolation
		if !errors.As(err, &violation) {
			return ui.DashboardViewModel{}, err
		}
		r.logger.Warn("dashboard invariant violated", slog.String("invariant", violation.Name), slog.Float64("got", violation.Got), slog.Float64("want", violation.Want))
		vm.Warnings = append(vm.Warnings, violation.Error())
		if r.observer != nil {
			r.observer.InvariantViolated(violation.Name)
		}
	}

	charts := make([]ui.ChartView, len(r.layout))
	for i, spec := range r.layout {
		chart, err := r.bindChart(ds, spec)
		if err != nil {
			return ui.DashboardViewModel{}, err
		}
		charts[i] = chart
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range r.layout {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := r.draw(ds, spec)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Error("chart render failed", slog.String("chart", spec.ID), slog.Any("error", err))
				charts[i].Unavailable = true
				if r.observer != nil {
					r.observer.ChartUnavailable(spec.ID)
				}
				return nil
			}
			charts[i].SVG = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ui.DashboardViewModel{}, err
	}
	vm.Charts = charts
	vm.Highlights = BuildHighlights(ds, r.formatters)
	return vm, nil
}

func (r *Renderer) bindChart(ds dataset.Dataset, spec ChartSpec) (ui.ChartView, error) {
	rows, err := sourceRows(ds, spec.Source)
	if err != nil {
		return ui.ChartView{}, err
	}
	values, err := bind(rows, spec.Source, spec.Fields)
	if err != nil {
		return ui.ChartView{}, err
	}
	chart := ui.ChartView{ID: spec.ID, Title: spec.Title, Kind: spec.Kind}
	if spec.Domain != nil {
		lo, hi := spec.Domain.Min, spec.Domain.Max
		chart.DomainMin, chart.DomainMax = &lo, &hi
	}
	if spec.Kind == ui.ChartPie {
		field := spec.Fields[0]
		sv := ui.SeriesView{Key: field.Key, Name: field.Label}
		for i, row := range rows {
			sv.Points = append(sv.Points, ui.PointView{
				Label: row.Label(),
				Value: values[0][i],
				Text:  PieLabel(row.Label(), values[0][i]),
			})
		}
		chart.Series = []ui.SeriesView{sv}
		return chart, nil
	}
	for f, field := range spec.Fields {
		sv := ui.SeriesView{Key: field.Key, Name: field.Label, Color: ui.ResolveColor(field.ColorToken)}
		for i, row := range rows {
			sv.Points = append(sv.Points, ui.PointView{
				Label: row.Label(),
				Value: values[f][i],
				Text:  r.formatters.Format(field.Key, values[f][i]),
			})
		}
		chart.Series = append(chart.Series, sv)
	}
	return chart, nil
}

func (r *Renderer) draw(ds dataset.Dataset, spec ChartSpec) (template.HTML, error) {
	switch spec.Kind {
	case ui.ChartLine:
		labels, series, err := r.seriesFor(ds, spec)
		if err != nil {
			return "", err
		}
		return r.RenderLineChart(labels, series, spec)
	case ui.ChartBar:
		labels, series, err := r.seriesFor(ds, spec)
		if err != nil {
			return "", err
		}
		return r.RenderBarChart(labels, series, spec)
	case ui.ChartPie:
		return r.RenderPieChart(ds.TaskTypes, spec)
	}
	return "", fmt.Errorf("dashboard: unknown chart kind %q", spec.Kind)
}

func (r *Renderer) seriesFor(ds dataset.Dataset, spec ChartSpec) ([]string, []svg.Series, error) {
	rows, err := sourceRows(ds, spec.Source)
	if err != nil {
		return nil, nil, err
	}
	values, err := bind(rows, spec.Source, spec.Fields)
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = row.Label()
	}
	series := make([]svg.Series, len(spec.Fields))
	for f, field := range spec.Fields {
		series[f] = svg.Series{
			Key:         field.Key,
			Name:        field.Label,
			Values:      values[f],
			Color:       ui.ResolveColor(field.ColorToken),
			StrokeWidth: field.StrokeWidth,
		}
	}
	return labels, series, nil
}

// RenderLineChart draws one line per bound field. When spec pins a domain the
// value axis is fixed to it instead of auto-scaling.
func (r *Renderer) RenderLineChart(labels []string, series []svg.Series, spec ChartSpec) (template.HTML, error) {
	return r.charts.Line(r.width, r.height, labels, series, svg.LineOpts{
		Title:       spec.Title,
		Description: spec.Description,
		ShowDots:    true,
		Domain:      spec.Domain,
	})
}

// RenderBarChart draws grouped bars with tooltips formatted per field key.
func (r *Renderer) RenderBarChart(labels []string, series []svg.Series, spec ChartSpec) (template.HTML, error) {
	return r.charts.Bars(r.width, r.height, labels, series, svg.BarOpts{
		Title:       spec.Title,
		Description: spec.Description,
		Format:      r.formatters.Format,
	})
}

// RenderPieChart draws one wedge per category labelled "{category}: {share}%".
func (r *Renderer) RenderPieChart(shares []dataset.TaskTypeShare, spec ChartSpec) (template.HTML, error) {
	slices := make([]svg.Slice, len(shares))
	for i, s := range shares {
		slices[i] = svg.Slice{
			Label: PieLabel(s.Category, s.Share),
			Value: s.Share,
			Color: ui.ResolveColor(s.ColorToken),
		}
	}
	return r.charts.Pie(r.width, r.height, slices, svg.PieOpts{
		Title:       spec.Title,
		Description: spec.Description,
	})
}

// PieLabel is the wedge caption. The share is shown as supplied.
func PieLabel(category string, share float64) string {
	return fmt.Sprintf("%s: %s%%", category, plain(share))
}

// TrimToRange keeps the trailing periods covered by tr. Series shorter than
// the window are returned whole.
func TrimToRange(ds dataset.Dataset, tr TimeRange) dataset.Dataset {
	n := tr.Months()
	out := ds.Clone()
	out.Adoption = tail(out.Adoption, n)
	out.Revenue = tail(out.Revenue, n)
	out.Performance = tail(out.Performance, n)
	return out
}

func tail[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
