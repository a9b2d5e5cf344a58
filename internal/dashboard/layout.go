package dashboard

import (
	"fmt"

	"github.com/agentic-platform/insights/internal/dashboard/svg"
	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
)

// Source names a table of the dataset.
type Source string

const (
	SourceAdoption    Source = "adoption"
	SourceRevenue     Source = "revenue"
	SourcePerformance Source = "performance"
	SourceTaskTypes   Source = "taskTypes"
)

// FieldSpec binds one field of a series to a plotted line or bar.
type FieldSpec struct {
	Key         string
	Label       string
	ColorToken  string
	StrokeWidth float64
}

// ChartSpec describes one chart region of the page.
type ChartSpec struct {
	ID          string
	Title       string
	Description string
	Kind        ui.ChartKind
	Source      Source
	Fields      []FieldSpec
	Domain      *svg.Domain
}

// Layout is the ordered list of chart regions.
type Layout []ChartSpec

// Chart ids used by the default layout.
const (
	ChartAdoption    = "adoption"
	ChartRevenue     = "revenue"
	ChartPerformance = "performance"
	ChartTaskTypes   = "task-types"
)

// PerformanceDomain keeps small success rate deltas legible.
var PerformanceDomain = svg.Domain{Min: 85, Max: 100}

// DefaultLayout is the investor dashboard: two line charts, a grouped bar
// chart and a pie.
func DefaultLayout() Layout {
	perf := PerformanceDomain
	return Layout{
		{
			ID:          ChartAdoption,
			Title:       "Agent Adoption Growth",
			Description: "Active and newly onboarded agents per month",
			Kind:        ui.ChartLine,
			Source:      SourceAdoption,
			Fields: []FieldSpec{
				{Key: dataset.KeyActiveAgents, Label: "Active Agents", ColorToken: "blue", StrokeWidth: 3},
				{Key: dataset.KeyNewAgents, Label: "New Agents", ColorToken: "green", StrokeWidth: 2},
			},
		},
		{
			ID:          ChartRevenue,
			Title:       "Revenue Performance",
			Description: "Total revenue and average revenue per agent",
			Kind:        ui.ChartBar,
			Source:      SourceRevenue,
			Fields: []FieldSpec{
				{Key: dataset.KeyTotalRevenue, Label: "Total Revenue ($)", ColorToken: "amber"},
				{Key: dataset.KeyAvgRevenue, Label: "Avg Revenue/Agent ($)", ColorToken: "blue"},
			},
		},
		{
			ID:          ChartPerformance,
			Title:       "Task Performance Metrics",
			Description: "Task success rate per month",
			Kind:        ui.ChartLine,
			Source:      SourcePerformance,
			Fields: []FieldSpec{
				{Key: dataset.KeySuccessRate, Label: "Success Rate (%)", ColorToken: "purple", StrokeWidth: 3},
			},
			Domain: &perf,
		},
		{
			ID:          ChartTaskTypes,
			Title:       "Task Type Distribution",
			Description: "Share of completed tasks by type",
			Kind:        ui.ChartPie,
			Source:      SourceTaskTypes,
			Fields: []FieldSpec{
				{Key: dataset.KeyShare, Label: "Share"},
			},
		},
	}
}

func sourceRows(ds dataset.Dataset, src Source) ([]dataset.Row, error) {
	switch src {
	case SourceAdoption:
		return dataset.Rows(ds.Adoption), nil
	case SourceRevenue:
		return dataset.Rows(ds.Revenue), nil
	case SourcePerformance:
		return dataset.Rows(ds.Performance), nil
	case SourceTaskTypes:
		return dataset.Rows(ds.TaskTypes), nil
	}
	return nil, fmt.Errorf("dashboard: unknown source %q", src)
}

// bind resolves every requested field on every row. A field a row does not
// expose is a malformed row.
func bind(rows []dataset.Row, src Source, fields []FieldSpec) ([][]float64, error) {
	if len(rows) == 0 {
		return nil, &dataset.MalformedRowError{Series: string(src), Row: -1, Reason: "has no rows"}
	}
	if len(fields) == 0 {
		return nil, &dataset.MalformedRowError{Series: string(src), Row: -1, Reason: "has no bound fields"}
	}
	values := make([][]float64, len(fields))
	for f, field := range fields {
		values[f] = make([]float64, len(rows))
		for i, row := range rows {
			v, ok := row.Value(field.Key)
			if !ok {
				return nil, &dataset.MalformedRowError{Series: string(src), Row: i, Field: field.Key, Reason: "is missing"}
			}
			values[f][i] = v
		}
	}
	return values, nil
}

// Validate binds the layout against ds once so a bad field key fails before
// anything is served.
func (l Layout) Validate(ds dataset.Dataset) error {
	seen := make(map[string]struct{}, len(l))
	for _, spec := range l {
		if spec.ID == "" {
			return fmt.Errorf("dashboard: chart %q needs an id", spec.Title)
		}
		if _, dup := seen[spec.ID]; dup {
			return fmt.Errorf("dashboard: duplicate chart id %q", spec.ID)
		}
		seen[spec.ID] = struct{}{}
		if spec.Kind == ui.ChartPie && len(spec.Fields) != 1 {
			return fmt.Errorf("dashboard: pie chart %q needs exactly one field", spec.ID)
		}
		rows, err := sourceRows(ds, spec.Source)
		if err != nil {
			return err
		}
		if _, err := bind(rows, spec.Source, spec.Fields); err != nil {
			return err
		}
	}
	return nil
}
