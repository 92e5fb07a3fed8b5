// Package render provides format conversion and alternative views for
// Sankey charts.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). They back the PDF and PNG
// sinks in [sankey/sink] as well as the [nodelink] view.
//
//	svg := sink.RenderSVG(result)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the flow graph as a plain directed
// graph using Graphviz, which is useful for checking how links resolved.
//
// [sankey/sink]: github.com/matzehuels/sankeyflow/pkg/sankey/sink
// [nodelink]: github.com/matzehuels/sankeyflow/pkg/render/nodelink
package render
