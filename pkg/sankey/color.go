package sankey

import "strings"

// FallbackColor is used when a CSS variable color has no fallback.
const FallbackColor = "#03a9f4"

// StaticColor resolves a CSS var(--name, fallback) expression to its
// fallback so the color can be used outside a browser. Other colors are
// returned unchanged and an empty color resolves like [DefaultColor].
func StaticColor(c string) string {
	if c == "" {
		c = DefaultColor
	}
	if !strings.HasPrefix(c, "var(") {
		return c
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(c, "var("), ")")
	if _, fallback, ok := strings.Cut(inner, ","); ok {
		if fallback = strings.TrimSpace(fallback); fallback != "" {
			return fallback
		}
	}
	return FallbackColor
}
