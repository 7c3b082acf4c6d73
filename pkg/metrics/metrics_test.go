package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-templating/pkg/engine"
	"github.com/goliatone/go-templating/pkg/metrics"
)

func TestObserver_CountsByKindAndStatus(t *testing.T) {
	registry := prometheus.NewRegistry()
	observer := metrics.New(metrics.WithRegistry(registry), metrics.WithNamespace("test"))

	observer.ObserveRender(engine.RenderEvent{Path: "a", Kind: engine.KindRender, Duration: time.Millisecond})
	observer.ObserveRender(engine.RenderEvent{Path: "b", Kind: engine.KindPartial, Duration: time.Millisecond})
	observer.ObserveRender(engine.RenderEvent{Path: "c", Kind: engine.KindRender, Err: errors.New("boom")})

	if got := testutil.CollectAndCount(registry, "test_renders_total"); got != 3 {
		t.Fatalf("expected 3 label series, got %d", got)
	}
	if got := testutil.CollectAndCount(registry, "test_render_duration_seconds"); got != 2 {
		t.Fatalf("expected 2 histogram series, got %d", got)
	}
}

func TestObserver_WiredIntoEngine(t *testing.T) {
	registry := prometheus.NewRegistry()
	observer := metrics.New(metrics.WithRegistry(registry))

	loader := engine.NewMapLoader()
	loader.MustRegister("page", engine.TemplateFunc(func(r *engine.Renderer) error {
		_, err := r.Partial("part", nil)
		return err
	}))
	loader.MustRegister("part", engine.TemplateFunc(func(r *engine.Renderer) error {
		_, err := r.WriteString("x")
		return err
	}))

	e := engine.Must(engine.New(loader, engine.WithObserver(observer)))
	if _, err := e.Render("page", nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := testutil.CollectAndCount(registry, "templating_renders_total"); got != 2 {
		t.Fatalf("expected render and partial series, got %d", got)
	}
}
