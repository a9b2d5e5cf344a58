package export

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/parquet-go/parquet-go"

	"github.com/agentic-platform/insights/internal/dataset"
)

// ErrUnknownSeries is returned for a series name without a parquet schema.
var ErrUnknownSeries = errors.New("export: unknown series")

// AdoptionRecord is one adoption row in the parquet export.
type AdoptionRecord struct {
	Period       string  `parquet:"period,snappy"`
	ActiveAgents int64   `parquet:"active_agents,snappy"`
	NewAgents    int64   `parquet:"new_agents,snappy"`
	ChurnRate    float64 `parquet:"churn_rate,snappy"`
}

// RevenueRecord is one revenue row in the parquet export.
type RevenueRecord struct {
	Period       string  `parquet:"period,snappy"`
	AvgRevenue   float64 `parquet:"avg_revenue,snappy"`
	TotalRevenue float64 `parquet:"total_revenue,snappy"`
}

// PerformanceRecord is one performance row in the parquet export.
type PerformanceRecord struct {
	Period          string  `parquet:"period,snappy"`
	SuccessRate     float64 `parquet:"success_rate,snappy"`
	AvgResponseTime float64 `parquet:"avg_response_time,snappy"`
	TasksCompleted  int64   `parquet:"tasks_completed,snappy"`
}

// TaskTypeRecord is one task distribution slice in the parquet export.
type TaskTypeRecord struct {
	Category   string  `parquet:"category,snappy"`
	Share      float64 `parquet:"share,snappy"`
	ColorToken string  `parquet:"color_token,snappy"`
}

type seriesWriter func(io.Writer, dataset.Dataset) error

var seriesWriters = map[string]seriesWriter{
	"adoption": func(w io.Writer, ds dataset.Dataset) error {
		records := make([]AdoptionRecord, len(ds.Adoption))
		for i, p := range ds.Adoption {
			records[i] = AdoptionRecord{Period: p.Period, ActiveAgents: int64(p.ActiveAgents), NewAgents: int64(p.NewAgents), ChurnRate: p.ChurnRate}
		}
		return writeParquet(w, records)
	},
	"revenue": func(w io.Writer, ds dataset.Dataset) error {
		records := make([]RevenueRecord, len(ds.Revenue))
		for i, p := range ds.Revenue {
			records[i] = RevenueRecord{Period: p.Period, AvgRevenue: p.AvgRevenue, TotalRevenue: p.TotalRevenue}
		}
		return writeParquet(w, records)
	},
	"performance": func(w io.Writer, ds dataset.Dataset) error {
		records := make([]PerformanceRecord, len(ds.Performance))
		for i, p := range ds.Performance {
			records[i] = PerformanceRecord{Period: p.Period, SuccessRate: p.SuccessRate, AvgResponseTime: p.AvgResponseTime, TasksCompleted: int64(p.TasksCompleted)}
		}
		return writeParquet(w, records)
	},
	"task-types": func(w io.Writer, ds dataset.Dataset) error {
		records := make([]TaskTypeRecord, len(ds.TaskTypes))
		for i, s := range ds.TaskTypes {
			records[i] = TaskTypeRecord{Category: s.Category, Share: s.Share, ColorToken: s.ColorToken}
		}
		return writeParquet(w, records)
	},
}

// SeriesNames lists the exportable series in alphabetical order.
func SeriesNames() []string {
	names := make([]string, 0, len(seriesWriters))
	for name := range seriesWriters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteSeriesParquet writes the named dataset series as a parquet file.
func WriteSeriesParquet(w io.Writer, ds dataset.Dataset, series string) error {
	write, ok := seriesWriters[series]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeries, series)
	}
	return write(w, ds)
}

func writeParquet[T any](w io.Writer, records []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	return writer.Close()
}
