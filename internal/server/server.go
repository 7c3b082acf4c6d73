// Package server exposes an engine over HTTP: every GET path renders the
// template of the same name with the query string as variables.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-templating/pkg/engine"
)

// Config configures the HTTP handler.
type Config struct {
	Engine *engine.Engine
	Logger *slog.Logger

	// Vars are merged under the query parameters of every request.
	Vars map[string]any

	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer

	// Index is rendered for "/" (default: "index").
	Index string
}

// New builds the router.
func New(cfg Config) (http.Handler, error) {
	if cfg.Engine == nil {
		return nil, errors.New("server: engine is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Index == "" {
		cfg.Index = "index"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/*", renderHandler(cfg))

	return r, nil
}

func renderHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		path := strings.Trim(chi.URLParam(req, "*"), "/")
		if path == "" {
			path = cfg.Index
		}

		vars := make(map[string]any, len(cfg.Vars))
		for key, value := range cfg.Vars {
			vars[key] = value
		}
		for key, values := range req.URL.Query() {
			if len(values) == 1 {
				vars[key] = values[0]
				continue
			}
			vars[key] = values
		}

		out, err := cfg.Engine.Render(path, vars)
		if err != nil {
			if errors.Is(err, engine.ErrTemplateNotFound) {
				http.NotFound(w, req)
				return
			}
			cfg.Logger.Error("render failed",
				"path", path,
				"request_id", middleware.GetReqID(req.Context()),
				"error", err,
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	}
}
