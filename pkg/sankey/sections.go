package sankey

// SectionFlexSize returns the distance between consecutive columns along the
// flow axis. fullSize is the chart extent along that axis and columns holds
// the nodes of each column in order.
//
// The last column needs room for labels: the widest label next to its node
// when horizontal, two lines of text below it when vertical. The remaining
// columns share what is left equally, unless the last column would end up
// wider than the others, in which case every column gets an equal share.
func SectionFlexSize(columns [][]Node, fullSize float64, vertical bool, m TextMeasurer) float64 {
	if len(columns) < 2 {
		return fullSize
	}
	m = measurerOrDefault(m)

	var last float64
	if vertical {
		last = FontSize*2 + NodeWidth
	} else {
		for _, n := range columns[len(columns)-1] {
			w := NodeWidth + TextPadding
			if n.Label != "" {
				w += m.TextWidth(n.Label, FontSize)
			}
			last = max(last, w)
		}
	}

	flex := (fullSize - last) / float64(len(columns)-1)
	if last < flex {
		return flex
	}
	return fullSize / float64(len(columns))
}
