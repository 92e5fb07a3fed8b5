package sankey

import (
	"math"
	"strconv"
	"strings"
)

// PathCommand is one SVG path command. Op is "M", "L", "C" or empty for the
// second and third points of a cubic curve.
type PathCommand struct {
	Op   string
	X, Y float64
}

// Path is the closed ribbon drawn for one link.
type Path struct {
	Source   ProcessedNode
	Target   ProcessedNode
	Value    float64
	Commands []PathCommand
}

// D renders the path as the value of an SVG d attribute.
func (p Path) D() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.Op)
		b.WriteString(formatCoord(c.X))
		b.WriteByte(',')
		b.WriteString(formatCoord(c.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RoutePaths builds one ribbon per link. The ribbon runs from the source
// node through the link's pass-through nodes to the target, then back along
// the same chain offset by the ribbon's width. Links referring to nodes
// missing from nodes are skipped.
func RoutePaths(nodes []ProcessedNode, links []ProcessedLink, vertical bool) []Path {
	byID := make(map[string]ProcessedNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	// Coordinates are computed for a horizontal chart: flow along x, breadth
	// along y. Vertical charts swap them at the end.
	flow := func(n ProcessedNode) float64 {
		if vertical {
			return n.Y
		}
		return n.X
	}
	orth := func(n ProcessedNode) float64 {
		if vertical {
			return n.X
		}
		return n.Y
	}

	paths := make([]Path, 0, len(links))
	for _, link := range links {
		chain, ok := pathChain(byID, link)
		if !ok {
			continue
		}
		offsets := make([]float64, len(chain))
		offsets[0] = link.Offset.Source
		offsets[len(offsets)-1] = link.Offset.Target

		source := chain[0]
		cmds := []PathCommand{
			{Op: "M", X: flow(source) + NodeWidth, Y: orth(source) + link.Offset.Source*source.Size},
		}

		for i := 0; i < len(chain)-1; i++ {
			node, next := chain[i], chain[i+1]
			mid := (flow(next)-flow(node))/2 + flow(node)
			start := orth(node) + offsets[i]*node.Size
			end := orth(next) + offsets[i+1]*next.Size
			cmds = append(cmds,
				PathCommand{Op: "L", X: flow(node) + NodeWidth, Y: start},
				PathCommand{Op: "C", X: mid, Y: start},
				PathCommand{X: mid, Y: end},
				PathCommand{X: flow(next), Y: end},
			)
		}

		for i := len(chain) - 1; i > 0; i-- {
			node, prev := chain[i], chain[i-1]
			mid := (flow(node)-flow(prev))/2 + flow(prev)
			start := orth(node) + offsets[i]*node.Size + ribbonWidth(link.Value, node)
			end := orth(prev) + offsets[i-1]*prev.Size + ribbonWidth(link.Value, prev)
			cmds = append(cmds,
				PathCommand{Op: "L", X: flow(node), Y: start},
				PathCommand{Op: "C", X: mid, Y: start},
				PathCommand{X: mid, Y: end},
				PathCommand{X: flow(prev) + NodeWidth, Y: end},
			)
		}

		if vertical {
			for i := range cmds {
				cmds[i].X, cmds[i].Y = cmds[i].Y, cmds[i].X
			}
		}

		paths = append(paths, Path{
			Source:   source,
			Target:   chain[len(chain)-1],
			Value:    link.Value,
			Commands: cmds,
		})
	}
	return paths
}

func pathChain(byID map[string]ProcessedNode, link ProcessedLink) ([]ProcessedNode, bool) {
	ids := make([]string, 0, len(link.PassThroughNodeIDs)+2)
	ids = append(ids, link.Source)
	ids = append(ids, link.PassThroughNodeIDs...)
	ids = append(ids, link.Target)

	chain := make([]ProcessedNode, len(ids))
	for i, id := range ids {
		n, ok := byID[id]
		if !ok {
			return nil, false
		}
		chain[i] = n
	}
	return chain, true
}

// ribbonWidth is the share of node's breadth a link of the given value takes.
func ribbonWidth(value float64, node ProcessedNode) float64 {
	return math.Max(value/valueOr(node.Value)*node.Size, 0)
}
