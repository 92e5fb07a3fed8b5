// Package pkg provides the libraries behind Sankeyflow.
//
// # Overview
//
// Sankeyflow lays out Sankey charts: nodes arranged in columns, joined by
// ribbons whose breadth is proportional to the value they carry. The pkg
// directory is organized into these areas:
//
//  1. [sankey] - The layout engine (link resolution, node placement, ribbon paths)
//  2. [chart] - Serialization of charts and computed layouts
//  3. [energy] - Builds the chart of a home's energy distribution
//  4. [pipeline] - Orchestration (parse → layout → render)
//  5. [cache], [store] - Caching and chart storage
//
// # Architecture
//
// The typical data flow:
//
//	chart.json / energy.toml
//	         ↓
//	    [chart] or [energy] package (parse into a chart)
//	         ↓
//	    [sankey] package (layout)
//	         ↓
//	    [sankey/sink] package (SVG, PNG, PDF)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/sankeyflow/pkg/sankey"
//	    "github.com/matzehuels/sankeyflow/pkg/sankey/sink"
//	)
//
//	res := sankey.Layout(sankey.Data{
//	    Nodes: []sankey.Node{
//	        {ID: "grid", Value: 5, Index: 0},
//	        {ID: "home", Value: 5, Index: 1},
//	    },
//	    Links: []sankey.Link{{Source: "grid", Target: "home"}},
//	}, sankey.Options{Width: 800, Height: 400})
//	svg := sink.RenderSVG(res)
//
// Most callers go through [pipeline.Runner], which adds caching and the
// remaining output formats.
//
// [sankey]: github.com/matzehuels/sankeyflow/pkg/sankey
// [sankey/sink]: github.com/matzehuels/sankeyflow/pkg/sankey/sink
// [chart]: github.com/matzehuels/sankeyflow/pkg/chart
// [energy]: github.com/matzehuels/sankeyflow/pkg/energy
// [pipeline]: github.com/matzehuels/sankeyflow/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/sankeyflow/pkg/pipeline#Runner
// [cache]: github.com/matzehuels/sankeyflow/pkg/cache
// [store]: github.com/matzehuels/sankeyflow/pkg/store
package pkg
