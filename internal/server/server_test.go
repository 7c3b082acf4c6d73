package server_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-templating/internal/server"
	"github.com/goliatone/go-templating/pkg/engine"
	"github.com/goliatone/go-templating/pkg/loader/pongo"
	"github.com/goliatone/go-templating/pkg/metrics"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()

	loader := engine.NewMapLoader()
	loader.MustRegister("index", engine.TemplateFunc(func(r *engine.Renderer) error {
		_, err := fmt.Fprintf(r, "home of %v", r.Var("site"))
		return err
	}))
	loader.MustRegister("docs/page", engine.TemplateFunc(func(r *engine.Renderer) error {
		_, err := fmt.Fprintf(r, "page %s", r.HTML(fmt.Sprint(r.Var("q"))))
		return err
	}))
	loader.MustRegister("fail", engine.TemplateFunc(func(r *engine.Renderer) error {
		return errors.New("boom")
	}))

	registry := prometheus.NewRegistry()
	e := engine.Must(engine.New(loader, engine.WithObserver(metrics.New(metrics.WithRegistry(registry)))))

	handler, err := server.New(server.Config{
		Engine:   e,
		Vars:     map[string]any{"site": "Docs"},
		Gatherer: registry,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return handler
}

func get(t *testing.T, h http.Handler, target string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return rec.Code, string(body)
}

func TestServer_RendersTemplates(t *testing.T) {
	h := newHandler(t)

	code, body := get(t, h, "/")
	if code != http.StatusOK || body != "home of Docs" {
		t.Fatalf("index: code=%d body=%q", code, body)
	}

	code, body = get(t, h, "/docs/page?q=%3Cb%3E")
	if code != http.StatusOK || body != "page &lt;b&gt;" {
		t.Fatalf("page: code=%d body=%q", code, body)
	}
}

func TestServer_Errors(t *testing.T) {
	h := newHandler(t)

	if code, _ := get(t, h, "/missing"); code != http.StatusNotFound {
		t.Fatalf("missing: expected 404, got %d", code)
	}
	if code, _ := get(t, h, "/fail"); code != http.StatusInternalServerError {
		t.Fatalf("fail: expected 500, got %d", code)
	}
}

func TestServer_Metrics(t *testing.T) {
	h := newHandler(t)
	get(t, h, "/")

	code, body := get(t, h, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", code)
	}
	if !strings.Contains(body, `templating_renders_total{kind="render",status="ok"} 1`) {
		t.Fatalf("metrics output missing render counter:\n%s", body)
	}
}

func TestNew_RequiresEngine(t *testing.T) {
	if _, err := server.New(server.Config{}); err == nil {
		t.Fatalf("expected error without engine")
	}
}

func TestServer_PongoTemplates(t *testing.T) {
	loader, err := pongo.New(pongo.WithFS(fstest.MapFS{
		"index.tpl":  {Data: []byte(`hi {{ q }}`)},
		"broken.tpl": {Data: []byte(`[{{ partial("missing") }}]`)},
	}))
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	h, err := server.New(server.Config{Engine: engine.Must(engine.New(loader))})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	code, body := get(t, h, "/?q=1&utm-source=mail")
	if code != http.StatusOK || body != "hi 1" {
		t.Fatalf("index: code=%d body=%q", code, body)
	}

	if code, _ := get(t, h, "/broken"); code != http.StatusInternalServerError {
		t.Fatalf("missing partial: expected 500, got %d", code)
	}
}
