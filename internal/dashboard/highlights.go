package dashboard

import (
	"fmt"

	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
)

// SummaryTitle heads the highlight panel.
const SummaryTitle = "Platform Performance Summary"

// BuildHighlights reads the latest performance and adoption rows for the
// summary panel. Empty series yield no tiles.
func BuildHighlights(ds dataset.Dataset, f Formatters) []ui.HighlightView {
	var out []ui.HighlightView
	if n := len(ds.Performance); n > 0 {
		last := ds.Performance[n-1]
		out = append(out,
			highlight(Compact(float64(last.TasksCompleted)), fmt.Sprintf("Tasks Completed (%s)", monthName(last.Period)), "blue", "activity"),
			highlight(f.Format(dataset.KeyAvgResponseTime, last.AvgResponseTime), "Avg Response Time", "green", "zap"),
		)
	}
	if n := len(ds.Adoption); n > 0 {
		out = append(out, highlight(f.Format(dataset.KeyChurnRate, ds.Adoption[n-1].ChurnRate), "Monthly Churn Rate", "purple", "target"))
	}
	return out
}

func highlight(value, caption, color, icon string) ui.HighlightView {
	return ui.HighlightView{
		Value:      value,
		Caption:    caption,
		ColorToken: color,
		IconToken:  icon,
		Accent:     ui.ResolveColor(color),
		Icon:       ui.ResolveIcon(icon),
	}
}

var monthNames = map[string]string{
	"Jan": "January", "Feb": "February", "Mar": "March", "Apr": "April",
	"May": "May", "Jun": "June", "Jul": "July", "Aug": "August",
	"Sep": "September", "Oct": "October", "Nov": "November", "Dec": "December",
}

func monthName(period string) string {
	if name, ok := monthNames[period]; ok {
		return name
	}
	return period
}
