package sankey

import "testing"

func TestStaticColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#123456", "#123456"},
		{"", "#03a9f4"},
		{DefaultColor, "#03a9f4"},
		{"var(--energy-solar-color, #ff9800)", "#ff9800"},
		{"var(--energy-grid-color, rgb(72, 143, 194))", "rgb(72, 143, 194)"},
		{"var(--no-fallback)", FallbackColor},
		{"var(--empty, )", FallbackColor},
	}
	for _, tt := range tests {
		if got := StaticColor(tt.in); got != tt.want {
			t.Errorf("StaticColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
