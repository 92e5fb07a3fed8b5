package sankey

import (
	"math"
	"slices"
)

// maxResolveRounds bounds how often a column is re-solved after nodes were
// clamped to MinSize. Each round only ever adds nodes to the clamped set, so
// real inputs converge in a handful of rounds.
const maxResolveRounds = 64

// NodeLayout describes the space available to the node layout engine.
type NodeLayout struct {
	// SectionSize is the breadth of a column (perpendicular to the flow).
	SectionSize float64
	// FlexSize is the distance between consecutive columns along the flow.
	FlexSize float64
	// Vertical swaps the x and y coordinates of every node.
	Vertical bool
}

// LayoutNodes groups nodes into columns, sizes them proportionally to their
// value using a single scale shared by all columns, and positions them
// within their column.
//
// indexes lists the columns to lay out in order; nodes whose index is not
// listed are ignored.
func LayoutNodes(nodes []Node, indexes []int, nl NodeLayout) []Section {
	perSection := make(map[int][]Node, len(indexes))
	for _, n := range nodes {
		perSection[n.Index] = append(perSection[n.Index], n)
	}

	sections := make([]Section, 0, len(indexes))
	var scale float64
	for i, index := range indexes {
		members := perSection[index]
		processed := make([]ProcessedNode, len(members))
		var total float64
		for j, n := range members {
			if n.Color == "" && !n.PassThrough {
				n.Color = DefaultColor
			}
			processed[j] = ProcessedNode{Node: n}
			total += n.Value
		}

		available := nl.SectionSize - (float64(len(members))*MinDistance - MinDistance)
		var spp float64
		processed, spp = setNodeSizes(processed, available, total, scale)
		scale = spp

		sections = append(sections, Section{
			Nodes:         processed,
			Offset:        nl.FlexSize * float64(i),
			Index:         index,
			TotalValue:    total,
			StatePerPixel: spp,
		})
	}

	for i := range sections {
		positionSection(&sections[i], nl, scale)
	}
	return sections
}

// Flatten returns the nodes of all sections in column order.
func Flatten(sections []Section) []ProcessedNode {
	var out []ProcessedNode
	for _, s := range sections {
		out = append(out, s.Nodes...)
	}
	return out
}

// setNodeSizes sizes the nodes of one column. scale is the largest
// state-per-pixel seen so far across columns; the returned scale is the
// updated maximum and is the one the sizes were computed with.
//
// Nodes that fall below MinSize are clamped and their shortfall is taken
// from the space left for the others, after which the column is solved
// again. Clamped nodes keep their size in later rounds.
func setNodeSizes(nodes []ProcessedNode, available, total, scale float64) ([]ProcessedNode, float64) {
	sized := slices.Clone(nodes)
	for range maxResolveRounds {
		if spp := total / math.Max(available, 1); spp > scale {
			scale = spp
		}

		var deficit float64
		for i := range sized {
			if sized[i].Size == MinSize {
				continue
			}
			size := sizeFor(sized[i].Value, scale)
			if size < MinSize {
				deficit += MinSize - size
				size = MinSize
			}
			sized[i].Size = size
		}
		if deficit == 0 {
			break
		}
		available -= deficit
	}
	return sized, scale
}

// positionSection applies the final shared scale to a column and spreads its
// nodes evenly; a lone node is centered.
func positionSection(s *Section, nl NodeLayout, scale float64) {
	var totalSize float64
	if s.StatePerPixel != scale {
		for i := range s.Nodes {
			size := math.Max(MinSize, sizeFor(s.Nodes[i].Value, scale))
			s.Nodes[i].Size = size
			totalSize += size
		}
		s.StatePerPixel = scale
	} else {
		for _, n := range s.Nodes {
			totalSize += n.Size
		}
	}

	emptySpace := nl.SectionSize - totalSize
	var spacer float64
	offset := emptySpace/2 + MinDistance
	if len(s.Nodes) > 1 {
		spacer = emptySpace / float64(len(s.Nodes)-1)
		offset = MinDistance
	}

	for i := range s.Nodes {
		n := &s.Nodes[i]
		if nl.Vertical {
			n.X, n.Y = offset, s.Offset
		} else {
			n.X, n.Y = s.Offset, offset
		}
		offset += n.Size + spacer
	}
}

// sizeFor converts a value into whole pixels at the given scale.
func sizeFor(value, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return math.Floor(value / scale)
}
