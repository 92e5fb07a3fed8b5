package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sankeyflow/pkg/buildinfo"
	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/store"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

// =============================================================================
// Render API
// =============================================================================

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r, r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := s.readChart(w, r, opts.Width)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.render(w, r, c, opts)
}

func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	c, err := s.readChart(w, r, pipeline.DefaultWidth)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id, err := s.store.Save(r.Context(), c)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("stored chart", "id", id, "nodes", len(c.Nodes))

	w.Header().Set("Location", "/api/v1/charts/"+id)
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      id,
		"preview": "/charts/" + id,
	})
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadChart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRenderChart(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadChart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := renderOptions(r, chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.render(w, r, rec.Chart, opts)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
		Timestamp time.Time `json:"timestamp"`
	}{
		Status:    "ok",
		Info:      buildinfo.Get(),
		Timestamp: time.Now().UTC(),
	})
}

// =============================================================================
// Helpers
// =============================================================================

// render runs the pipeline for a single format and writes the artifact.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c chart.Chart, opts pipeline.Options) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, c, opts)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "render timed out")
		}
		s.writeError(w, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache-Layout", strconv.FormatBool(res.CacheInfo.LayoutHit))
	w.Header().Set("X-Cache-Render", strconv.FormatBool(res.CacheInfo.RenderHit))
	if res.ChartHash != "" {
		w.Header().Set("ETag", strconv.Quote(res.ChartHash))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// renderOptions reads pipeline options from the query string. format
// defaults to svg.
func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Formats:    []string{format},
		Background: q.Get("background"),
	}

	var err error
	if opts.Width, err = floatParam(q.Get("width")); err != nil {
		return opts, err
	}
	if opts.Height, err = floatParam(q.Get("height")); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam(q.Get("scale")); err != nil {
		return opts, err
	}
	if v := q.Get("measurer"); v != "" {
		if err := pipeline.ValidateMeasurer(v); err != nil {
			return opts, err
		}
		opts.Measurer = v
	}
	if v := q.Get("vertical"); v != "" {
		vertical, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid vertical value %q", v)
		}
		opts.Orientation = pipeline.OrientationHorizontal
		if vertical {
			opts.Orientation = pipeline.OrientationVertical
		}
	}
	if v := q.Get("interactive"); v != "" {
		if opts.Interactive, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid interactive value %q", v)
		}
	}
	if v := q.Get("css_vars"); v != "" {
		if opts.CSSVars, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid css_vars value %q", v)
		}
	}
	return opts, nil
}

func floatParam(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid number %q", v)
	}
	return f, nil
}

// readChart decodes the request body. TOML bodies are energy summaries;
// anything else is a chart document.
func (s *Server) readChart(w http.ResponseWriter, r *http.Request, width float64) (chart.Chart, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return chart.Chart{}, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", s.maxBody)
		}
		return chart.Chart{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if width == 0 {
		width = pipeline.DefaultWidth
	}
	return pipeline.Parse(data, inputKind(r), width)
}

func inputKind(r *http.Request) string {
	if r.URL.Query().Get("input") == pipeline.InputEnergy {
		return pipeline.InputEnergy
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/toml" {
		return pipeline.InputEnergy
	}
	return pipeline.InputChart
}

func (s *Server) loadChart(ctx context.Context, id string) (*store.Record, error) {
	if err := errors.ValidateChartID(id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	p := errors.ProblemOf(err)
	if p.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Debug("request rejected", "error", err)
	}
	writeJSON(w, p.Status, p)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
