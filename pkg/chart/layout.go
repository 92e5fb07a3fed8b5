package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

// =============================================================================
// Layout - Computed Chart
// =============================================================================

// Layout is the serialization format for a computed Sankey layout. It holds
// everything a renderer needs, so a layout can be cached, stored or sent to
// another tool and drawn later without recomputing it.
type Layout struct {
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	Vertical bool    `json:"vertical,omitempty" bson:"vertical,omitempty"`
	Title    string  `json:"title,omitempty" bson:"title,omitempty"`
	Unit     string  `json:"unit,omitempty" bson:"unit,omitempty"`

	Nodes []PositionedNode `json:"nodes" bson:"nodes"`
	Links []ResolvedLink   `json:"links" bson:"links"`
	Paths []Ribbon         `json:"paths" bson:"paths"`
}

// PositionedNode is a node with its computed position and breadth.
type PositionedNode struct {
	Node        `bson:",inline"`
	X           float64 `json:"x" bson:"x"`
	Y           float64 `json:"y" bson:"y"`
	Size        float64 `json:"size" bson:"size"`
	PassThrough bool    `json:"pass_through,omitempty" bson:"pass_through,omitempty"`
}

// ResolvedLink is a link with its resolved value and ribbon offsets.
type ResolvedLink struct {
	Source       string   `json:"source" bson:"source"`
	Target       string   `json:"target" bson:"target"`
	Value        float64  `json:"value" bson:"value"`
	SourceOffset float64  `json:"source_offset" bson:"source_offset"`
	TargetOffset float64  `json:"target_offset" bson:"target_offset"`
	PassThrough  []string `json:"pass_through,omitempty" bson:"pass_through,omitempty"`
}

// Ribbon is the drawn shape of one link.
type Ribbon struct {
	Source   string    `json:"source" bson:"source"`
	Target   string    `json:"target" bson:"target"`
	Value    float64   `json:"value" bson:"value"`
	D        string    `json:"d" bson:"d"`
	Commands []Command `json:"commands" bson:"commands"`
}

// Command is one SVG path command of a ribbon.
type Command struct {
	Op string  `json:"op,omitempty" bson:"op,omitempty"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// =============================================================================
// Layout ↔ sankey.Result Conversion
// =============================================================================

// Export converts a computed layout into its serialization format.
func Export(res sankey.Result) Layout {
	l := Layout{
		Width:    res.Width,
		Height:   res.Height,
		Vertical: res.Vertical,
		Nodes:    make([]PositionedNode, len(res.Nodes)),
		Links:    make([]ResolvedLink, len(res.Links)),
		Paths:    make([]Ribbon, len(res.Paths)),
	}
	for i, n := range res.Nodes {
		l.Nodes[i] = PositionedNode{
			Node: Node{
				ID:      n.ID,
				Value:   n.Value,
				Index:   n.Index,
				Label:   n.Label,
				Tooltip: n.Tooltip,
				Color:   n.Color,
			},
			X:           n.X,
			Y:           n.Y,
			Size:        n.Size,
			PassThrough: n.PassThrough,
		}
	}
	for i, lk := range res.Links {
		l.Links[i] = ResolvedLink{
			Source:       lk.Source,
			Target:       lk.Target,
			Value:        lk.Value,
			SourceOffset: lk.Offset.Source,
			TargetOffset: lk.Offset.Target,
			PassThrough:  slices.Clone(lk.PassThroughNodeIDs),
		}
	}
	for i, p := range res.Paths {
		cmds := make([]Command, len(p.Commands))
		for j, c := range p.Commands {
			cmds[j] = Command{Op: c.Op, X: c.X, Y: c.Y}
		}
		l.Paths[i] = Ribbon{Source: p.Source.ID, Target: p.Target.ID, Value: p.Value, D: p.D(), Commands: cmds}
	}
	return l
}

// Result rebuilds the in-memory layout so it can be rendered. Sections are
// regrouped from the node column indexes; their scale is not preserved.
func (l Layout) Result() (sankey.Result, error) {
	res := sankey.Result{
		Width:    l.Width,
		Height:   l.Height,
		Vertical: l.Vertical,
		Nodes:    make([]sankey.ProcessedNode, len(l.Nodes)),
		Links:    make([]sankey.ProcessedLink, len(l.Links)),
		Paths:    make([]sankey.Path, 0, len(l.Paths)),
	}

	byID := make(map[string]sankey.ProcessedNode, len(l.Nodes))
	for i, n := range l.Nodes {
		pn := sankey.ProcessedNode{
			Node: sankey.Node{
				ID:          n.ID,
				Value:       n.Value,
				Index:       n.Index,
				Label:       n.Label,
				Tooltip:     n.Tooltip,
				Color:       n.Color,
				PassThrough: n.PassThrough,
			},
			X:    n.X,
			Y:    n.Y,
			Size: n.Size,
		}
		res.Nodes[i] = pn
		byID[n.ID] = pn
	}
	for i, lk := range l.Links {
		res.Links[i] = sankey.ProcessedLink{
			Source:             lk.Source,
			Target:             lk.Target,
			Value:              lk.Value,
			Offset:             sankey.Offset{Source: lk.SourceOffset, Target: lk.TargetOffset},
			PassThroughNodeIDs: slices.Clone(lk.PassThrough),
		}
	}
	for _, r := range l.Paths {
		src, okS := byID[r.Source]
		tgt, okT := byID[r.Target]
		if !okS || !okT {
			return sankey.Result{}, errors.New(errors.ErrCodeInvalidChart, "ribbon %s -> %s references unknown node", r.Source, r.Target)
		}
		cmds := make([]sankey.PathCommand, len(r.Commands))
		for j, c := range r.Commands {
			cmds[j] = sankey.PathCommand{Op: c.Op, X: c.X, Y: c.Y}
		}
		res.Paths = append(res.Paths, sankey.Path{Source: src, Target: tgt, Value: r.Value, Commands: cmds})
	}

	indexes := sankey.ColumnIndexes(sankey.FilterNodes(nodesOf(res.Nodes)))
	for _, idx := range indexes {
		s := sankey.Section{Index: idx}
		for _, n := range res.Nodes {
			if n.Index == idx {
				s.Nodes = append(s.Nodes, n)
				s.TotalValue += n.Value
			}
		}
		if len(s.Nodes) > 0 {
			s.Offset = s.Nodes[0].X
			if l.Vertical {
				s.Offset = s.Nodes[0].Y
			}
		}
		res.Sections = append(res.Sections, s)
	}
	return res, nil
}

func nodesOf(pn []sankey.ProcessedNode) []sankey.Node {
	out := make([]sankey.Node, len(pn))
	for i, n := range pn {
		out[i] = n.Node
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidChart, err, "unmarshal layout")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidDimension, "layout must have positive width and height")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
