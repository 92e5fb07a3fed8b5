package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes values and column numbers in node labels.
	// When false, only the node label (or ID) is shown.
	Detailed bool
	// PassThrough draws the spacer nodes links use to cross columns and
	// routes those links through them.
	PassThrough bool
	// FormatValue formats link and node values. Nil uses %g.
	FormatValue func(float64) string
}

// ToDOT converts a computed layout to Graphviz DOT format. Columns become
// ranks, so the diagram flows the same way as the Sankey chart: left to
// right, or top to bottom for vertical layouts. Each resolved link is an
// edge labeled with its value.
func ToDOT(res sankey.Result, opts Options) string {
	format := opts.FormatValue
	if format == nil {
		format = func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	}
	rankdir := "LR"
	if res.Vertical {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#9e9e9e\", fontsize=11];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for _, s := range res.Sections {
		fmt.Fprintf(&buf, "\n  { rank=same; // column %d\n", s.Index)
		for _, n := range s.Nodes {
			if n.PassThrough && !opts.PassThrough {
				continue
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed, format), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, l := range res.Links {
		label := fmt.Sprintf("label=%q", format(l.Value))
		if !opts.PassThrough || len(l.PassThroughNodeIDs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.Source, l.Target, label)
			continue
		}
		hops := append(append([]string{l.Source}, l.PassThroughNodeIDs...), l.Target)
		for i := 0; i < len(hops)-1; i++ {
			attrs := "arrowhead=none"
			if i == len(hops)-2 {
				attrs = label
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", hops[i], hops[i+1], attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n sankey.ProcessedNode, detailed bool, format func(float64) string) string {
	name := n.Label
	if name == "" {
		name = n.ID
	}
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\nvalue: %s\ncolumn: %d", name, format(n.Value), n.Index)
}

func fmtAttrs(n sankey.ProcessedNode, detailed bool, format func(float64) string) []string {
	if n.PassThrough {
		return []string{`label=""`, "shape=point", "width=0.05", "style=dashed", `color="#bdbdbd"`}
	}
	return []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed, format)),
		fmt.Sprintf("fillcolor=%q", sankey.StaticColor(n.Color)),
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with one
// sized in pixels and anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
