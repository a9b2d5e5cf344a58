package dashboard

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentic-platform/insights/internal/dataset"
)

// Formatter renders a raw field value for display.
type Formatter func(value float64) string

// Formatters maps a field key to its display rule. Keys without an entry use
// Default.
type Formatters struct {
	ByField map[string]Formatter
	Default Formatter
}

// DefaultFormatters is the formatting configuration of the investor
// dashboard.
func DefaultFormatters() Formatters {
	return Formatters{
		ByField: map[string]Formatter{
			dataset.KeyTotalRevenue:    CurrencyMillions,
			dataset.KeyAvgRevenue:      Currency,
			dataset.KeyActiveAgents:    Grouped,
			dataset.KeyNewAgents:       Grouped,
			dataset.KeyTasksCompleted:  Grouped,
			dataset.KeyChurnRate:       Percent,
			dataset.KeySuccessRate:     Percent,
			dataset.KeyShare:           Percent,
			dataset.KeyAvgResponseTime: Seconds,
		},
		Default: Grouped,
	}
}

// Format applies the rule registered for key.
func (f Formatters) Format(key string, value float64) string {
	if fn, ok := f.ByField[key]; ok && fn != nil {
		return fn(value)
	}
	if f.Default != nil {
		return f.Default(value)
	}
	return plain(value)
}

var printer = message.NewPrinter(language.English)

// CurrencyMillions renders 6512000 as "$6.51M".
func CurrencyMillions(v float64) string {
	return fmt.Sprintf("$%.2fM", v/1_000_000)
}

// Currency renders 1850 as "$1850".
func Currency(v float64) string {
	return "$" + plain(v)
}

// Percent renders 96.8 as "96.8%".
func Percent(v float64) string {
	return plain(v) + "%"
}

// Seconds renders 0.3 as "0.3s".
func Seconds(v float64) string {
	return plain(v) + "s"
}

// Grouped renders 3520 as "3,520".
func Grouped(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// Compact renders 428000 as "428K" and 6512000 as "6.5M".
func Compact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return plain(math.Round(v/100_000)/10) + "M"
	case abs >= 1_000:
		return plain(math.Round(v/100)/10) + "K"
	default:
		return plain(v)
	}
}

// ChangeLabel renders the magnitude of a change with one decimal: -5 gives "5.0%".
func ChangeLabel(change float64) string {
	return strconv.FormatFloat(math.Abs(change), 'f', 1, 64) + "%"
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
