// Package sink renders computed Sankey layouts into output formats.
//
// A "sink" transforms a [sankey.Result] into a final document:
//
//   - SVG: standalone vector graphics, optionally interactive
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws one gradient-filled ribbon per link (source color to
// target color), a bar per node and the node labels. Horizontal charts put
// labels to the right of each bar; vertical charts wrap them below the bar
// and shrink the font until the longest word fits.
//
//	svg := sink.RenderSVG(res,
//	    sink.WithValueFormatter(energy.FormatKWh),
//	    sink.WithInteraction(),
//	)
//
// Colors given as CSS variables, such as the default node color, resolve to
// their fallback unless [WithCSSVariables] is set, so the document renders
// the same in a browser and in rsvg-convert.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render the layout as SVG first, then convert
// via [render.ToPDF] and [render.ToPNG]:
//
//	pdf, err := sink.RenderPDF(ctx, res, opts...)
//	png, err := sink.RenderPNG(ctx, res, 2, opts...)
//
// Both shell out to rsvg-convert from librsvg.
//
// [render.ToPDF]: github.com/matzehuels/sankeyflow/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/sankeyflow/pkg/render.ToPNG
package sink
