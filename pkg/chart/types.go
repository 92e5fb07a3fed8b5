package chart

import (
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

// =============================================================================
// Chart - Sankey Input
// =============================================================================

// Chart is the canonical serialization format for Sankey chart input.
// Used for chart files, API requests, storage and cache keys.
//
// Node and link order is significant: links claim capacity from their
// endpoints in the order they are listed.
type Chart struct {
	Title    string `json:"title,omitempty" bson:"title,omitempty"`
	Unit     string `json:"unit,omitempty" bson:"unit,omitempty"` // Appended to values in tooltips
	Vertical bool   `json:"vertical,omitempty" bson:"vertical,omitempty"`
	Nodes    []Node `json:"nodes" bson:"nodes"`
	Links    []Link `json:"links" bson:"links"`
}

// Node is one labeled quantity of a chart.
type Node struct {
	ID      string  `json:"id" bson:"id"`
	Value   float64 `json:"value" bson:"value"`
	Index   int     `json:"index" bson:"index"` // Column, left-to-right or top-to-bottom
	Label   string  `json:"label,omitempty" bson:"label,omitempty"`
	Tooltip string  `json:"tooltip,omitempty" bson:"tooltip,omitempty"`
	Color   string  `json:"color,omitempty" bson:"color,omitempty"`
}

// Link is a flow between two nodes. A missing value takes whatever the
// endpoints have left.
type Link struct {
	Source string   `json:"source" bson:"source"`
	Target string   `json:"target" bson:"target"`
	Value  *float64 `json:"value,omitempty" bson:"value,omitempty"`
}

// Validate checks the structural rules a chart must satisfy before layout:
// non-empty unique node ids and non-negative values. Links naming unknown
// nodes are allowed; layout drops them.
func (c Chart) Validate() error {
	seen := make(map[string]struct{}, len(c.Nodes))
	for i, n := range c.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidChart, err, "node %d", i)
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidChart, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Value < 0 {
			return errors.New(errors.ErrCodeInvalidChart, "node %q has negative value %g", n.ID, n.Value)
		}
	}
	for i, l := range c.Links {
		if l.Source == "" || l.Target == "" {
			return errors.New(errors.ErrCodeInvalidChart, "link %d needs a source and a target", i)
		}
		if l.Value != nil && *l.Value < 0 {
			return errors.New(errors.ErrCodeInvalidChart, "link %s -> %s has negative value %g", l.Source, l.Target, *l.Value)
		}
	}
	return nil
}

// =============================================================================
// Chart ↔ sankey.Data Conversion
// =============================================================================

// Data converts the chart into layout input.
func (c Chart) Data() sankey.Data {
	data := sankey.Data{
		Nodes: make([]sankey.Node, len(c.Nodes)),
		Links: make([]sankey.Link, len(c.Links)),
	}
	for i, n := range c.Nodes {
		data.Nodes[i] = sankey.Node{
			ID:      n.ID,
			Value:   n.Value,
			Index:   n.Index,
			Label:   n.Label,
			Tooltip: n.Tooltip,
			Color:   n.Color,
		}
	}
	for i, l := range c.Links {
		data.Links[i] = sankey.Link{Source: l.Source, Target: l.Target}
		if l.Value != nil {
			data.Links[i].Value = sankey.Value(*l.Value)
		}
	}
	return data
}

// FromData builds a chart from layout input. Pass-through nodes are skipped
// since layout recreates them.
func FromData(d sankey.Data) Chart {
	c := Chart{
		Nodes: make([]Node, 0, len(d.Nodes)),
		Links: make([]Link, len(d.Links)),
	}
	for _, n := range d.Nodes {
		if n.PassThrough {
			continue
		}
		c.Nodes = append(c.Nodes, Node{
			ID:      n.ID,
			Value:   n.Value,
			Index:   n.Index,
			Label:   n.Label,
			Tooltip: n.Tooltip,
			Color:   n.Color,
		})
	}
	for i, l := range d.Links {
		c.Links[i] = Link{Source: l.Source, Target: l.Target}
		if l.Value != nil {
			v := *l.Value
			c.Links[i].Value = &v
		}
	}
	return c
}
