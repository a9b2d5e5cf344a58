package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Pie renders one wedge per slice, sized by its share of the slice total. The
// wedge label is taken verbatim from Slice.Label.
func Pie(width, height int, slices []Slice, opts PieOpts) (template.HTML, error) {
	if len(slices) == 0 {
		return "", fmt.Errorf("svg: slices required")
	}
	total := 0.0
	for _, s := range slices {
		if s.Value < 0 {
			return "", fmt.Errorf("svg: slice %q is negative", s.Label)
		}
		total += s.Value
	}
	if almostEqual(total, 0) {
		return "", fmt.Errorf("svg: slices sum to zero")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	radius := opts.Radius
	if radius <= 0 {
		radius = math.Min(float64(width), float64(height)) * 0.3
	}
	textColor := fallback(opts.TextColor, "#334155")
	cx := float64(width) / 2
	cy := float64(height) / 2

	titleID := makeID(opts.Title, "pie-title")
	descID := makeID(opts.Title, "pie-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Pie chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Distribution"))))

	// Angles start at twelve o'clock and run clockwise.
	angle := -math.Pi / 2
	for i, s := range slices {
		sweep := s.Value / total * 2 * math.Pi
		color := fallback(s.Color, defaultPalette[i%len(defaultPalette)])
		label := template.HTMLEscapeString(s.Label)
		if almostEqual(sweep, 2*math.Pi) {
			b.WriteString(fmt.Sprintf("<circle class=\"wedge\" cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"><title>%s</title></circle>", cx, cy, radius, color, label))
		} else {
			x1, y1 := cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)
			x2, y2 := cx+radius*math.Cos(angle+sweep), cy+radius*math.Sin(angle+sweep)
			largeArc := 0
			if sweep > math.Pi {
				largeArc = 1
			}
			b.WriteString(fmt.Sprintf("<path class=\"wedge\" d=\"M%.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f Z\" fill=\"%s\" stroke=\"#ffffff\" stroke-width=\"1\"><title>%s</title></path>", cx, cy, x1, y1, radius, radius, largeArc, x2, y2, color, label))
		}

		mid := angle + sweep/2
		lx, ly := cx+(radius+16)*math.Cos(mid), cy+(radius+16)*math.Sin(mid)
		anchor := "start"
		if math.Cos(mid) < 0 {
			anchor = "end"
		}
		b.WriteString(fmt.Sprintf("<text class=\"wedge-label\" x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"11\" text-anchor=\"%s\">%s</text>", lx, ly, textColor, anchor, label))
		angle += sweep
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
