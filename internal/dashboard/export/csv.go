package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/agentic-platform/insights/internal/dashboard/ui"
)

// CSVHeader is the column layout of the dashboard CSV export.
var CSVHeader = []string{"Section", "Series", "Label", "Value", "Display"}

// WriteDashboardCSV flattens the cards, chart points and highlights of a view
// model into one long-format CSV.
func WriteDashboardCSV(w io.Writer, vm ui.DashboardViewModel) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, card := range vm.Cards {
		if err := writer.Write([]string{"card", card.Title, string(card.Direction), card.ChangeLabel, card.Value}); err != nil {
			return err
		}
	}
	for _, chart := range vm.Charts {
		for _, series := range chart.Series {
			for _, point := range series.Points {
				if err := writer.Write([]string{
					chart.ID,
					series.Key,
					point.Label,
					formatFloat(point.Value),
					point.Text,
				}); err != nil {
					return err
				}
			}
		}
	}
	for _, h := range vm.Highlights {
		if err := writer.Write([]string{"highlight", h.Caption, "", "", h.Value}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteChartCSV emits a single chart as Label plus one column per series.
func WriteChartCSV(w io.Writer, chart ui.ChartView) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"Label"}
	for _, s := range chart.Series {
		header = append(header, s.Name)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	if len(chart.Series) == 0 {
		writer.Flush()
		return writer.Error()
	}
	for i, point := range chart.Series[0].Points {
		record := []string{point.Label}
		for _, s := range chart.Series {
			if i < len(s.Points) {
				record = append(record, formatFloat(s.Points[i].Value))
			} else {
				record = append(record, "")
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
