package dashboard

import (
	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
)

const (
	glyphUp   = "▲"
	glyphDown = "▼"
)

// RenderMetricCard turns a summary metric into a card. A zero change counts as
// up. The headline value is used as supplied.
func RenderMetricCard(metric dataset.SummaryMetric) ui.CardView {
	card := ui.CardView{
		Title:       metric.Title,
		Value:       metric.DisplayValue,
		Subtitle:    metric.Subtitle,
		Direction:   ui.DirectionUp,
		Glyph:       glyphUp,
		ChangeLabel: ChangeLabel(metric.ChangePercent),
		ColorToken:  metric.ColorToken,
		IconToken:   metric.IconToken,
		Accent:      ui.ResolveColor(metric.ColorToken),
		Icon:        ui.ResolveIcon(metric.IconToken),
	}
	if metric.ChangePercent < 0 {
		card.Direction = ui.DirectionDown
		card.Glyph = glyphDown
	}
	return card
}
