package sankey

import (
	"slices"
)

// Options configures a layout pass.
type Options struct {
	// Width and Height are the chart dimensions in pixels.
	Width, Height float64
	// Vertical lays columns out top-to-bottom instead of left-to-right.
	Vertical bool
	// Measurer sizes label text. Nil uses [fonts.Default].
	Measurer TextMeasurer
}

// Result is the output of a layout pass.
type Result struct {
	Width, Height float64
	Vertical      bool
	Sections      []Section
	Nodes         []ProcessedNode
	Links         []ProcessedLink
	Paths         []Path
}

// Layout computes node positions and link ribbons for data.
//
// It is a pure function of its inputs: every call starts from scratch and
// identical inputs produce identical output. Nodes with a non-positive value
// are left out, as are links that cannot be resolved.
func Layout(data Data, opts Options) Result {
	nodes := FilterNodes(data.Nodes)
	indexes := ColumnIndexes(nodes)
	links, passThrough := ResolveLinks(nodes, indexes, data.Links)

	all := make([]Node, 0, len(nodes)+len(passThrough))
	all = append(all, nodes...)
	all = append(all, passThrough...)

	breadth, depth := opts.Height, opts.Width
	if opts.Vertical {
		breadth, depth = opts.Width, opts.Height
	}

	sections := LayoutNodes(all, indexes, NodeLayout{
		SectionSize: breadth - MinDistance*2,
		FlexSize:    SectionFlexSize(groupByColumn(all, indexes), depth, opts.Vertical, opts.Measurer),
		Vertical:    opts.Vertical,
	})
	processed := Flatten(sections)

	return Result{
		Width:    opts.Width,
		Height:   opts.Height,
		Vertical: opts.Vertical,
		Sections: sections,
		Nodes:    processed,
		Links:    links,
		Paths:    RoutePaths(processed, links, opts.Vertical),
	}
}

// FilterNodes drops nodes that carry no value.
func FilterNodes(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Value > 0 {
			out = append(out, n)
		}
	}
	return out
}

// ColumnIndexes returns the distinct column indexes of nodes in ascending
// order.
func ColumnIndexes(nodes []Node) []int {
	indexes := make([]int, 0, len(nodes))
	for _, n := range nodes {
		indexes = append(indexes, n.Index)
	}
	slices.Sort(indexes)
	return slices.Compact(indexes)
}

func groupByColumn(nodes []Node, indexes []int) [][]Node {
	pos := make(map[int]int, len(indexes))
	for i, idx := range indexes {
		pos[idx] = i
	}
	columns := make([][]Node, len(indexes))
	for _, n := range nodes {
		if i, ok := pos[n.Index]; ok {
			columns[i] = append(columns[i], n)
		}
	}
	return columns
}

// Node returns the laid-out node with the given id.
func (r Result) Node(id string) (ProcessedNode, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return ProcessedNode{}, false
}
