package svg

import "html/template"

// Series is one named run of values plotted against shared labels. Key
// identifies the series to a ValueFormatter and defaults to Name.
type Series struct {
	Key         string
	Name        string
	Values      []float64
	Color       string
	StrokeWidth float64
}

// Domain pins the value axis. A nil *Domain means auto-scale.
type Domain struct {
	Min float64
	Max float64
}

// ValueFormatter turns a raw value of the series with the given key into a
// display label.
type ValueFormatter func(key string, value float64) string

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
	Domain      *Domain
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	Format      ValueFormatter
}

// Slice is one pie wedge.
type Slice struct {
	Label string
	Value float64
	Color string
}

// PieOpts customises the pie chart renderer.
type PieOpts struct {
	Title       string
	Description string
	TextColor   string
	Radius      float64
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 300
	DefaultPadding = 36.0
	DefaultTicks   = 5
	DefaultStroke  = 2.0
)

var defaultPalette = []string{"#3b82f6", "#10b981", "#f59e0b", "#8b5cf6", "#ef4444", "#0ea5e9"}

func seriesKey(s Series) string {
	return fallback(s.Key, s.Name)
}

func seriesColor(s Series, i int) string {
	return fallback(s.Color, defaultPalette[i%len(defaultPalette)])
}

// Renderer satisfies the dashboard's chart renderer contract with the
// functions of this package.
type Renderer struct{}

// Line delegates to Line.
func (Renderer) Line(width, height int, labels []string, series []Series, opts LineOpts) (template.HTML, error) {
	return Line(width, height, labels, series, opts)
}

// Bars delegates to Bars.
func (Renderer) Bars(width, height int, labels []string, series []Series, opts BarOpts) (template.HTML, error) {
	return Bars(width, height, labels, series, opts)
}

// Pie delegates to Pie.
func (Renderer) Pie(width, height int, slices []Slice, opts PieOpts) (template.HTML, error) {
	return Pie(width, height, slices, opts)
}
