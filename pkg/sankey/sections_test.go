package sankey

import "testing"

// charMeasurer gives every character the same width regardless of size.
type charMeasurer float64

func (m charMeasurer) TextWidth(text string, _ float64) float64 {
	return float64(len(text)) * float64(m)
}

func labeled(labels ...string) []Node {
	nodes := make([]Node, len(labels))
	for i, l := range labels {
		nodes[i] = Node{ID: l, Label: l, Value: 1}
	}
	return nodes
}

func TestSectionFlexSize(t *testing.T) {
	tests := []struct {
		name     string
		columns  [][]Node
		full     float64
		vertical bool
		want     float64
	}{
		{
			name:    "SingleColumn",
			columns: [][]Node{labeled("a")},
			full:    800,
			want:    800,
		},
		{
			name:    "NoColumns",
			columns: nil,
			full:    800,
			want:    800,
		},
		{
			name:    "LastLabelReserved",
			columns: [][]Node{labeled("x"), labeled("abcd")},
			full:    800,
			want:    740,
		},
		{
			name:    "WidestLabelWins",
			columns: [][]Node{labeled("x"), labeled("y"), labeled("ab", "abcdefghij")},
			full:    800,
			want:    340,
		},
		{
			name:    "UnlabeledNodes",
			columns: [][]Node{{{ID: "a"}}, {{ID: "b"}}},
			full:    800,
			want:    780,
		},
		{
			name:    "FallsBackToEqualShare",
			columns: [][]Node{labeled("x"), labeled("abcdefghij")},
			full:    100,
			want:    50,
		},
		{
			name:     "Vertical",
			columns:  [][]Node{labeled("x"), labeled("y"), labeled("a very long label that is ignored")},
			full:     400,
			vertical: true,
			want:     180.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SectionFlexSize(tt.columns, tt.full, tt.vertical, charMeasurer(10))
			if got != tt.want {
				t.Errorf("SectionFlexSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerticalLabelFontSize(t *testing.T) {
	tests := []struct {
		name  string
		label string
		width float64
		want  float64
	}{
		{"Fits", "TV", 100, FontSize},
		{"LongestWordShrinks", "Grid consumption", 55, 6},
		{"Empty", "", 10, FontSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerticalLabelFontSize(tt.label, tt.width, charMeasurer(10))
			if got != tt.want {
				t.Errorf("VerticalLabelFontSize(%q, %v) = %v, want %v", tt.label, tt.width, got, tt.want)
			}
		})
	}
}

func TestVerticalLabelWidth(t *testing.T) {
	n := ProcessedNode{Size: 20}
	if got := VerticalLabelWidth(n); got != MinDistance+20 {
		t.Errorf("VerticalLabelWidth = %v, want %v", got, MinDistance+20)
	}
}

func TestDefaultMeasurer(t *testing.T) {
	if measurerOrDefault(nil) == nil {
		t.Fatal("default measurer is nil")
	}
	if w := measurerOrDefault(nil).TextWidth("Solar", FontSize); w <= 0 {
		t.Errorf("default measurer width = %v, want positive", w)
	}
}
