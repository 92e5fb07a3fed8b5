package pipeline

import (
	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the layout of a chart and exports it in its
// serializable form. The chart's title and unit travel with the layout so
// renderers can label the output.
func GenerateLayout(c chart.Chart, opts Options) (chart.Layout, error) {
	if err := c.Validate(); err != nil {
		return chart.Layout{}, err
	}
	res := sankey.Layout(c.Data(), sankey.Options{
		Width:    opts.Width,
		Height:   opts.Height,
		Vertical: opts.Vertical(c),
		Measurer: opts.TextMeasurer(),
	})

	l := chart.Export(res)
	l.Title = c.Title
	l.Unit = c.Unit
	return l, nil
}

// Columns counts the distinct columns of a layout.
func Columns(l chart.Layout) int {
	seen := make(map[int]struct{})
	for _, n := range l.Nodes {
		seen[n.Index] = struct{}{}
	}
	return len(seen)
}
