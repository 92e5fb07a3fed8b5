package server

import (
	"fmt"
	"net/http"

	"github.com/chasefleming/elem-go"
	"github.com/chasefleming/elem-go/attrs"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

const previewCSS = `
body { font-family: Roboto, Helvetica, Arial, sans-serif; margin: 2rem auto; max-width: 960px; color: #212121; }
h1 { font-weight: 400; }
.chart { border: 1px solid #e0e0e0; border-radius: 8px; padding: 1rem; }
.chart svg { width: 100%; height: auto; }
.downloads { margin-top: 1rem; }
.downloads a { margin-right: 1rem; color: #03a9f4; }
.meta { color: #757575; font-size: 0.85rem; }`

// downloadFormats are linked from the preview page, in display order.
var downloadFormats = []string{
	pipeline.FormatSVG,
	pipeline.FormatPNG,
	pipeline.FormatPDF,
	pipeline.FormatJSON,
	pipeline.FormatDOT,
}

// handlePreview serves an HTML page embedding the interactive SVG of a
// stored chart.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.loadChart(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts, err := renderOptions(r, pipeline.FormatSVG)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Interactive = true
	res, err := s.runner.Execute(r.Context(), rec.Chart, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	title := rec.Chart.Title
	if title == "" {
		title = "Chart " + id
	}

	var links []elem.Node
	for _, f := range downloadFormats {
		href := fmt.Sprintf("/api/v1/charts/%s/render.%s", id, f)
		links = append(links, elem.A(attrs.Props{attrs.Href: href}, elem.Text(f)))
	}

	content := elem.Div(attrs.Props{},
		elem.H1(attrs.Props{}, elem.Text(title)),
		elem.Div(attrs.Props{attrs.Class: "chart"}, elem.Raw(string(res.Artifacts[pipeline.FormatSVG]))),
		elem.Div(attrs.Props{attrs.Class: "downloads"}, links...),
		elem.P(attrs.Props{attrs.Class: "meta"},
			elem.Text(fmt.Sprintf("%d nodes, %d links, %d columns. Created %s.",
				res.Stats.NodeCount, res.Stats.LinkCount, res.Stats.Columns,
				rec.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))),
		),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(renderPage(title, content)))
}

func renderPage(title string, content elem.Node) string {
	page := elem.Html(attrs.Props{attrs.Lang: "en"},
		elem.Head(attrs.Props{},
			elem.Meta(attrs.Props{attrs.Charset: "utf-8"}),
			elem.Meta(attrs.Props{attrs.Name: "viewport", attrs.Content: "width=device-width, initial-scale=1"}),
			elem.Title(attrs.Props{}, elem.Text(title)),
			elem.Style(attrs.Props{}, elem.Text(previewCSS)),
		),
		elem.Body(attrs.Props{}, content),
	)
	return page.Render()
}
