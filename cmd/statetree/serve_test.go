package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/statetree/internal/logging"
	"github.com/vango-dev/statetree/internal/metrics"
	"github.com/vango-dev/statetree/pkg/template/loader"
	"github.com/vango-dev/statetree/pkg/template/parser"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, src := range testTemplates {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	reg := prometheus.NewRegistry()
	l := loader.New(parser.NewFSResolver(fsys),
		loader.WithLogger(logging.NewNop()),
		loader.WithMetrics(metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("test"))),
	)
	srv := httptest.NewServer(newRouter(l, reg, "test", logging.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestServeRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		status   int
		contains string
	}{
		{"definition", "/templates/card.html", http.StatusOK, "  @child@"},
		{"render", "/templates/card.html/render?title=Hi&open=true", http.StatusOK, `<div class="card open"><h2>Hi</h2></div>`},
		{"render escapes values", "/templates/note.html/render?title=%3Cb%3E", http.StatusOK, "<p>&lt;b&gt;</p>"},
		{"missing", "/templates/missing.html", http.StatusNotFound, "missing.html"},
		{"missing render", "/templates/missing.html/render", http.StatusNotFound, ""},
		{"parse error", "/templates/bad.html", http.StatusUnprocessableEntity, ""},
		{"unknown route", "/nowhere", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, srv, tt.path)
			if status != tt.status {
				t.Errorf("GET %s status = %d, want %d (body %q)", tt.path, status, tt.status, body)
			}
			if !strings.Contains(body, tt.contains) {
				t.Errorf("GET %s body = %q, want it to contain %q", tt.path, body, tt.contains)
			}
		})
	}
}

func TestServeListAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	get(t, srv, "/templates/note.html")
	get(t, srv, "/templates/card.html/render")
	get(t, srv, "/templates/card.html")
	get(t, srv, "/templates/bad.html")

	status, body := get(t, srv, "/templates")
	if status != http.StatusOK || body != "card.html\nnote.html\n" {
		t.Errorf("GET /templates = %d %q", status, body)
	}

	_, body = get(t, srv, "/metrics")
	for _, want := range []string{
		`test_http_requests_total{code="200",route="/templates/{name}"} 2`,
		`test_http_requests_total{code="422",route="/templates/{name}"} 1`,
		`test_templates_loaded_total{source="cache"} 1`,
		`test_templates_loaded_total{source="parsed"} 2`,
		`test_template_load_errors_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(io.EOF); got != http.StatusInternalServerError {
		t.Errorf("statusFor(io.EOF) = %d", got)
	}
}
