package server

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/observability/prom"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/store"
)

const chartJSON = `{
	// HuJSON is accepted
	"title": "Household",
	"unit": "kWh",
	"nodes": [
		{"id": "grid", "value": 5, "index": 0},
		{"id": "home", "value": 5, "index": 1},
		{"id": "heating", "value": 3, "index": 2},
		{"id": "light", "value": 2, "index": 2},
	],
	"links": [
		{"source": "grid", "target": "home"},
		{"source": "home", "target": "heating"},
		{"source": "home", "target": "light"},
	],
}`

const energyTOML = `
[sources]
from_grid = 2
solar = 1

[[devices]]
id = "sensor.kettle"
value = 0.5
`

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *store.Memory) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemory()
	s := New(pipeline.NewRunner(fc, nil, nil), st, opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(data)
}

func TestRenderSVG(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/api/v1/render?width=600&height=300", "application/json", chartJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if err := xml.Unmarshal([]byte(body), new(struct{})); err != nil {
		t.Errorf("svg not well-formed: %v", err)
	}
	if !strings.Contains(body, `width="600"`) {
		t.Error("svg should use the requested width")
	}
	if resp.Header.Get("X-Cache-Layout") != "false" {
		t.Error("first render should miss the layout cache")
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/api/v1/render?width=600&height=300", "application/json", chartJSON)
	if resp.Header.Get("X-Cache-Layout") != "true" || resp.Header.Get("X-Cache-Render") != "true" {
		t.Errorf("second render cache headers = %q %q", resp.Header.Get("X-Cache-Layout"), resp.Header.Get("X-Cache-Render"))
	}
}

func TestRenderMeasurer(t *testing.T) {
	ts, _ := newTestServer(t)

	url := ts.URL + "/api/v1/render?vertical=true&measurer="
	for _, m := range []string{pipeline.MeasurerTable, pipeline.MeasurerFont} {
		resp, body := do(t, http.MethodPost, url+m, "application/json", chartJSON)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("measurer=%s status = %d, body = %s", m, resp.StatusCode, body)
		}
		if resp.Header.Get("X-Cache-Layout") != "false" || resp.Header.Get("X-Cache-Render") != "false" {
			t.Errorf("measurer=%s should miss both caches, got %q %q", m,
				resp.Header.Get("X-Cache-Layout"), resp.Header.Get("X-Cache-Render"))
		}
	}
}

func TestRenderFormats(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		query, contentType, contains string
	}{
		{"format=json", "application/json", `"paths"`},
		{"format=dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
		{"format=svg&vertical=true", "image/svg+xml", "rotate(90)"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/api/v1/render?"+tt.query, "", chartJSON)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(body, tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestRenderEnergy(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/api/v1/render?format=json", "application/toml", energyTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	for _, id := range []string{`"home"`, `"solar"`, `"sensor.kettle"`, `"untracked"`} {
		if !strings.Contains(body, id) {
			t.Errorf("layout missing node %s", id)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	ts, _ := newTestServer(t, WithMaxBodyBytes(64))

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"bad format", "format=gif", chartJSON, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad width", "width=wide", chartJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"tiny width", "width=1", `{"nodes":[]}`, http.StatusBadRequest, "INVALID_DIMENSION"},
		{"bad vertical", "vertical=maybe", chartJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad measurer", "measurer=arial", chartJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"body too large", "", chartJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed chart", "", `{"nodes": [`, http.StatusBadRequest, "INVALID_CHART"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/api/v1/render?"+tt.query, "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, body)
			}
			var payload map[string]string
			if err := json.Unmarshal([]byte(body), &payload); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if payload["code"] != tt.code {
				t.Errorf("code = %q, want %q", payload["code"], tt.code)
			}
			if payload["error"] == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestStoredCharts(t *testing.T) {
	ts, st := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/api/v1/charts", "application/json", chartJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", resp.StatusCode, body)
	}
	var created map[string]string
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatal(err)
	}
	id := created["id"]
	if st.Len() != 1 {
		t.Fatalf("store has %d charts, want 1", st.Len())
	}
	if loc := resp.Header.Get("Location"); loc != "/api/v1/charts/"+id {
		t.Errorf("Location = %q", loc)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/api/v1/charts/"+id, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var rec store.Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != id || rec.Chart.Title != "Household" || len(rec.Chart.Nodes) != 4 {
		t.Errorf("record = %+v", rec)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/api/v1/charts/"+id+"/render.dot", "", "")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(body, "digraph") {
		t.Errorf("render.dot status = %d, body = %q", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/charts/"+id, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("preview Content-Type = %q", ct)
	}
	for _, want := range []string{"<title>Household</title>", "<svg", "render.png", "4 nodes, 3 links, 3 columns"} {
		if !strings.Contains(body, want) {
			t.Errorf("preview missing %q", want)
		}
	}
}

func TestStoredChartErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/charts/not-a-uuid", http.StatusBadRequest},
		{"/api/v1/charts/3f1c2a9e-8d4b-4b6a-9c1e-2f3a4b5c6d7e", http.StatusNotFound},
		{"/api/v1/charts/3f1c2a9e-8d4b-4b6a-9c1e-2f3a4b5c6d7e/render.svg", http.StatusNotFound},
		{"/charts/3f1c2a9e-8d4b-4b6a-9c1e-2f3a4b5c6d7e", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, _ := do(t, http.MethodGet, ts.URL+tt.path, "", "")
		if resp.StatusCode != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
	}
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" || health.Version == "" {
		t.Errorf("health = %+v", health)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	defer observability.Reset()
	reg := prometheus.NewRegistry()
	prom.New(reg).Register()

	ts, _ := newTestServer(t, WithGatherer(reg))
	do(t, http.MethodPost, ts.URL+"/api/v1/render", "", chartJSON)
	do(t, http.MethodGet, ts.URL+"/healthz", "", "")

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`sankeyflow_http_requests_total{method="POST",route="/api/v1/render",status="200"} 1`,
		`sankeyflow_http_requests_total{method="GET",route="/healthz",status="200"} 1`,
		`sankeyflow_layouts_total{result="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
