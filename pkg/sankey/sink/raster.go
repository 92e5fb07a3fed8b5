package sink

import (
	"context"

	"github.com/matzehuels/sankeyflow/pkg/render"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

// RenderPNG renders res as SVG with opts and rasterizes it at scale pixels
// per SVG unit. A scale <= 0 means 2.
func RenderPNG(ctx context.Context, res sankey.Result, scale float64, opts ...SVGOption) ([]byte, error) {
	if scale <= 0 {
		scale = 2
	}
	return render.ToPNG(ctx, RenderSVG(res, opts...), scale)
}

// RenderPDF renders res as SVG with opts and converts it to a single-page PDF.
func RenderPDF(ctx context.Context, res sankey.Result, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(res, opts...))
}
