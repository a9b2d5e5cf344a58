package ui

import (
	"html/template"
	"slices"

	"github.com/agentic-platform/insights/internal/dashboard/svg"
)

// Direction of a period-over-period change.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ChartKind identifies which renderer produced a chart region.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
)

// CardView is a metric card ready for the template.
type CardView struct {
	Title       string    `json:"title"`
	Value       string    `json:"value"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Direction   Direction `json:"direction"`
	Glyph       string    `json:"glyph"`
	ChangeLabel string    `json:"changeLabel"`
	ColorToken  string    `json:"colorToken"`
	IconToken   string    `json:"iconToken"`
	Accent      string    `json:"accent"`
	Icon        string    `json:"icon"`
}

// PointView is one plotted value, already formatted for display.
type PointView struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// SeriesView is one line, bar group member or the wedge set of a pie.
type SeriesView struct {
	Key    string      `json:"key"`
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	Points []PointView `json:"points"`
}

// ChartView is one chart region. Unavailable regions render a fallback
// message instead of the SVG.
type ChartView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Kind        ChartKind     `json:"kind"`
	Series      []SeriesView  `json:"series"`
	DomainMin   *float64      `json:"domainMin,omitempty"`
	DomainMax   *float64      `json:"domainMax,omitempty"`
	SVG         template.HTML `json:"svg,omitempty"`
	Unavailable bool          `json:"unavailable"`
}

// Points counts the data points across every series of the chart.
func (c ChartView) Points() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Points)
	}
	return n
}

// HighlightView is a tile of the performance summary panel.
type HighlightView struct {
	Value      string `json:"value"`
	Caption    string `json:"caption"`
	ColorToken string `json:"colorToken"`
	IconToken  string `json:"iconToken"`
	Accent     string `json:"accent"`
	Icon       string `json:"icon"`
}

// TimeRangeOption feeds the range selector.
type TimeRangeOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// DashboardViewModel combines all dashboard data for rendering.
type DashboardViewModel struct {
	Heading        string            `json:"heading"`
	Subheading     string            `json:"subheading"`
	TimeRange      string            `json:"timeRange"`
	RangeOptions   []TimeRangeOption `json:"rangeOptions"`
	RangeFiltered  bool              `json:"rangeFiltered"`
	DatasetVersion string            `json:"datasetVersion"`
	Cards          []CardView        `json:"cards"`
	Charts         []ChartView       `json:"charts"`
	Highlights     []HighlightView   `json:"highlights"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// Chart returns the chart with the given id.
func (vm DashboardViewModel) Chart(id string) (ChartView, bool) {
	for _, c := range vm.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return ChartView{}, false
}

// Clone returns a copy that shares no slices or pointers with vm, so one
// caller can edit its result without touching another's.
func (vm DashboardViewModel) Clone() DashboardViewModel {
	out := vm
	out.RangeOptions = slices.Clone(vm.RangeOptions)
	out.Cards = slices.Clone(vm.Cards)
	out.Highlights = slices.Clone(vm.Highlights)
	out.Warnings = slices.Clone(vm.Warnings)
	if vm.Charts != nil {
		out.Charts = make([]ChartView, len(vm.Charts))
		for i, c := range vm.Charts {
			out.Charts[i] = c.clone()
		}
	}
	return out
}

func (c ChartView) clone() ChartView {
	out := c
	if c.Series != nil {
		out.Series = make([]SeriesView, len(c.Series))
		for i, s := range c.Series {
			s.Points = slices.Clone(s.Points)
			out.Series[i] = s
		}
	}
	if c.DomainMin != nil {
		lo := *c.DomainMin
		out.DomainMin = &lo
	}
	if c.DomainMax != nil {
		hi := *c.DomainMax
		out.DomainMax = &hi
	}
	return out
}

// ChartRenderer abstracts SVG rendering for the dashboard.
type ChartRenderer interface {
	Line(width, height int, labels []string, series []svg.Series, opts svg.LineOpts) (template.HTML, error)
	Bars(width, height int, labels []string, series []svg.Series, opts svg.BarOpts) (template.HTML, error)
	Pie(width, height int, slices []svg.Slice, opts svg.PieOpts) (template.HTML, error)
}
