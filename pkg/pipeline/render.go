package pipeline

import (
	"context"
	"strconv"

	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/energy"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/nodelink"
	"github.com/matzehuels/sankeyflow/pkg/sankey/sink"
)

// =============================================================================
// Rendering
// =============================================================================

// RenderFromLayout generates output artifacts in the requested formats from
// a computed layout.
func RenderFromLayout(ctx context.Context, l chart.Layout, opts Options) (map[string][]byte, error) {
	res, err := l.Result()
	if err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(l, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(res, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, res, opts.Scale, svgOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, res, svgOpts...)
		case FormatJSON:
			data, err = chart.MarshalLayout(l)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(res, nodelink.Options{Detailed: true, FormatValue: ValueFormatter(l.Unit)}))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions constructs SVG render options from the pipeline options.
func buildSVGOptions(l chart.Layout, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithMeasurer(opts.TextMeasurer()),
		sink.WithValueFormatter(ValueFormatter(l.Unit)),
	}
	if l.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(l.Title))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	if opts.CSSVars {
		svgOpts = append(svgOpts, sink.WithCSSVariables())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}

// ValueFormatter formats values for tooltips in the given unit. Energy
// charts get three fraction digits; other values print as-is with the unit
// appended when there is one.
func ValueFormatter(unit string) func(float64) string {
	if unit == energy.Unit {
		return energy.FormatKWh
	}
	return func(v float64) string {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if unit == "" {
			return s
		}
		return s + " " + unit
	}
}

