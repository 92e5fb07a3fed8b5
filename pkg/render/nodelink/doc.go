// Package nodelink renders Sankey flow graphs as node-link diagrams.
//
// # Overview
//
// The Sankey chart hides how values were resolved behind ribbon widths.
// This package draws the same resolved graph with Graphviz instead: one box
// per node, one arrow per link labeled with its value, and one rank per
// column. It is mainly a debugging view for chart authors.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	res := sankey.Layout(data, opts)
//	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include value and column
//   - PassThrough: draw spacer nodes and route spanning links through them
//   - FormatValue: custom value formatting, such as kWh
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
