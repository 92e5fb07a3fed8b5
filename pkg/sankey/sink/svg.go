package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/fonts"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

const (
	ribbonOpacity   = 0.4
	labelColor      = "#212121"
	verticalLines   = 3
	gradientRotated = "rotate(90)"
)

const interactionCSS = `
    .ribbon { transition: fill-opacity 0.2s ease; }
    .ribbon:hover, .ribbon.highlight { fill-opacity: 0.7; }
    .node rect { transition: opacity 0.2s ease; }
    svg.focus .node:not(.highlight) rect { opacity: 0.4; }`

const interactionJS = `
    const root = document.currentScript.closest('svg');
    function highlight(id) {
      root.classList.add('focus');
      root.querySelectorAll('.node').forEach(n => n.classList.toggle('highlight', n.dataset.id === id));
      root.querySelectorAll('.ribbon').forEach(p => p.classList.toggle('highlight', p.dataset.source === id || p.dataset.target === id));
    }
    function clearHighlight() {
      root.classList.remove('focus');
      root.querySelectorAll('.highlight').forEach(el => el.classList.remove('highlight'));
    }
    root.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.id));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	measurer    sankey.TextMeasurer
	background  string
	title       string
	cssVars     bool
	interactive bool
	formatValue func(float64) string
}

// WithMeasurer sets the text measurer used to fit vertical labels. It should
// match the one the layout was computed with.
func WithMeasurer(m sankey.TextMeasurer) SVGOption {
	return func(r *svgRenderer) { r.measurer = m }
}

// WithBackground fills the chart area with color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithTitle adds a document title.
func WithTitle(title string) SVGOption {
	return func(r *svgRenderer) { r.title = title }
}

// WithCSSVariables keeps var(...) colors as they are. By default they are
// replaced with their fallback so the output renders outside a browser.
func WithCSSVariables() SVGOption {
	return func(r *svgRenderer) { r.cssVars = true }
}

// WithInteraction embeds hover highlighting of nodes and their ribbons.
func WithInteraction() SVGOption {
	return func(r *svgRenderer) { r.interactive = true }
}

// WithValueFormatter formats values for tooltips. Nodes without a tooltip of
// their own get "label: value", and ribbons get "source → target: value".
func WithValueFormatter(f func(float64) string) SVGOption {
	return func(r *svgRenderer) { r.formatValue = f }
}

// RenderSVG draws a computed layout as a standalone SVG document.
func RenderSVG(res sankey.Result, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.measurer == nil {
		r.measurer = fonts.Default()
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" preserveAspectRatio="none">`+"\n",
		num(res.Width), num(res.Height), num(res.Width), num(res.Height))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	fmt.Fprintf(&buf, "  <style>\n    .node-label { font-size: %spx; font-family: %s; fill: %s; }%s\n  </style>\n",
		num(sankey.FontSize), fonts.FontFamily, labelColor, interactionStyle(r.interactive))
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", escape(r.color(r.background)))
	}

	r.renderGradients(&buf, res)
	r.renderRibbons(&buf, res)
	r.renderNodes(&buf, res)
	if res.Vertical {
		r.renderVerticalLabels(&buf, res)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func interactionStyle(on bool) string {
	if on {
		return interactionCSS
	}
	return ""
}

func (r *svgRenderer) renderGradients(buf *bytes.Buffer, res sankey.Result) {
	if len(res.Paths) == 0 {
		return
	}
	transform := ""
	if res.Vertical {
		transform = fmt.Sprintf(` gradientTransform="%s"`, gradientRotated)
	}
	buf.WriteString("  <defs>\n")
	for i, p := range res.Paths {
		fmt.Fprintf(buf, `    <linearGradient id="%s"%s>`+"\n", GradientID(p, i), transform)
		fmt.Fprintf(buf, `      <stop offset="0%%" stop-color="%s"/>`+"\n", escape(r.color(p.Source.Color)))
		fmt.Fprintf(buf, `      <stop offset="100%%" stop-color="%s"/>`+"\n", escape(r.color(p.Target.Color)))
		buf.WriteString("    </linearGradient>\n")
	}
	buf.WriteString("  </defs>\n")
}

func (r *svgRenderer) renderRibbons(buf *bytes.Buffer, res sankey.Result) {
	for i, p := range res.Paths {
		fmt.Fprintf(buf, `  <path class="ribbon" data-source="%s" data-target="%s" d="%s" fill="url(#%s)" fill-opacity="%s"`,
			escape(p.Source.ID), escape(p.Target.ID), p.D(), GradientID(p, i), num(ribbonOpacity))
		if r.formatValue == nil {
			buf.WriteString("/>\n")
			continue
		}
		fmt.Fprintf(buf, "><title>%s → %s: %s</title></path>\n",
			escape(displayName(p.Source.Node)), escape(displayName(p.Target.Node)), escape(r.formatValue(p.Value)))
	}
}

func (r *svgRenderer) renderNodes(buf *bytes.Buffer, res sankey.Result) {
	for _, n := range res.Nodes {
		if n.PassThrough {
			continue
		}
		w, h := sankey.NodeWidth, n.Size
		if res.Vertical {
			w, h = n.Size, sankey.NodeWidth
		}
		fmt.Fprintf(buf, `  <g class="node" data-id="%s" transform="translate(%s,%s)">`+"\n", escape(n.ID), num(n.X), num(n.Y))
		fmt.Fprintf(buf, `    <rect width="%s" height="%s" fill="%s">`, num(w), num(h), escape(r.color(n.Color)))
		if tip := r.tooltip(n); tip != "" {
			fmt.Fprintf(buf, "<title>%s</title>", escape(tip))
		}
		buf.WriteString("</rect>\n")
		if !res.Vertical && n.Label != "" {
			fmt.Fprintf(buf, `    <text class="node-label" x="%s" y="%s" text-anchor="start" dominant-baseline="middle">%s</text>`+"\n",
				num(sankey.NodeWidth+sankey.TextPadding), num(n.Size/2), escape(n.Label))
		}
		buf.WriteString("  </g>\n")
	}
}

// renderVerticalLabels centers wrapped labels below each node, shrinking the
// font so the longest word fits the node's breadth.
func (r *svgRenderer) renderVerticalLabels(buf *bytes.Buffer, res sankey.Result) {
	for _, n := range res.Nodes {
		if n.PassThrough || n.Label == "" {
			continue
		}
		width := sankey.VerticalLabelWidth(n)
		size := sankey.VerticalLabelFontSize(n.Label, width, r.measurer)
		lines := wrapWords(n.Label, width, size, r.measurer, verticalLines)

		cx := n.X + n.Size/2
		fmt.Fprintf(buf, `  <text class="node-label vertical" x="%s" y="%s" text-anchor="middle" style="font-size: %spx">`,
			num(cx), num(n.Y+sankey.NodeWidth), num(size))
		fmt.Fprintf(buf, "<title>%s</title>", escape(n.Label))
		for _, line := range lines {
			fmt.Fprintf(buf, `<tspan x="%s" dy="%s">%s</tspan>`, num(cx), num(size), escape(line))
		}
		buf.WriteString("</text>\n")
	}
}

func (r *svgRenderer) tooltip(n sankey.ProcessedNode) string {
	if n.Tooltip != "" || r.formatValue == nil {
		return n.Tooltip
	}
	return displayName(n.Node) + ": " + r.formatValue(n.Value)
}

// color resolves var(--name, fallback) to its fallback unless CSS variables
// were requested.
func (r *svgRenderer) color(c string) string {
	if r.cssVars {
		if c == "" {
			return sankey.DefaultColor
		}
		return c
	}
	return sankey.StaticColor(c)
}

// wrapWords breaks label into at most maxLines lines no wider than width at
// fontSize. Words wider than a line get a line of their own; text beyond the
// last line is cut with an ellipsis.
func wrapWords(label string, width, fontSize float64, m sankey.TextMeasurer, maxLines int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(label) {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if cur == "" || m.TextWidth(candidate, fontSize) <= width {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] += "…"
	}
	return lines
}

// GradientID names the gradient that fills the i-th ribbon.
func GradientID(p sankey.Path, i int) string {
	return fmt.Sprintf("gradient%s.%s.%d", idSafe(p.Source.ID), idSafe(p.Target.ID), i)
}

func idSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
}

func displayName(n sankey.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
