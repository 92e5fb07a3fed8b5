package sankey

import (
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/fonts"
)

// TextMeasurer reports the rendered width of text at a font size.
// [fonts.Face] and [fonts.Table] implement it.
type TextMeasurer interface {
	TextWidth(text string, fontSize float64) float64
}

func measurerOrDefault(m TextMeasurer) TextMeasurer {
	if m == nil {
		return fonts.Default()
	}
	return m
}

// VerticalLabelFontSize shrinks the label font of a vertical chart so that
// the longest word of label fits into labelWidth. It never exceeds FontSize.
func VerticalLabelFontSize(label string, labelWidth float64, m TextMeasurer) float64 {
	var longest string
	for _, word := range strings.Split(label, " ") {
		if len(word) >= len(longest) {
			longest = word
		}
	}
	width := measurerOrDefault(m).TextWidth(longest, FontSize)
	if width <= 0 {
		return FontSize
	}
	return min(FontSize, labelWidth/width*FontSize)
}

// VerticalLabelWidth is the horizontal room a vertical chart gives the label
// under node n.
func VerticalLabelWidth(n ProcessedNode) float64 {
	return MinDistance + n.Size
}
