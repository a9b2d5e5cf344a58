package ui

// Colour and icon tokens are opaque to the data layer; only this file knows
// what they look like.

var colors = map[string]string{
	"blue":   "#3B82F6",
	"green":  "#10B981",
	"purple": "#8B5CF6",
	"amber":  "#F59E0B",
	"indigo": "#8884d8",
	"mint":   "#82ca9d",
	"gold":   "#ffc658",
	"coral":  "#ff7c7c",
}

var icons = map[string]string{
	"users":       "👥",
	"dollar":      "$",
	"target":      "◎",
	"trending-up": "↗",
	"activity":    "∿",
	"zap":         "⚡",
}

// FallbackColor is used for unknown colour tokens.
const FallbackColor = "#64748B"

// ResolveColor maps a colour token to a CSS colour.
func ResolveColor(token string) string {
	if c, ok := colors[token]; ok {
		return c
	}
	return FallbackColor
}

// ResolveIcon maps an icon token to a glyph.
func ResolveIcon(token string) string {
	if i, ok := icons[token]; ok {
		return i
	}
	return "•"
}
