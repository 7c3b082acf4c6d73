package engine

import (
	"errors"
	"io"
	"log/slog"

	"github.com/goliatone/go-templating/pkg/escape"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	escaper  escape.Escaper
	logger   *slog.Logger
	observer Observer
	maxDepth int
}

// WithEscaper replaces the default escaper used by Renderer.HTML and friends.
func WithEscaper(esc escape.Escaper) Option {
	return func(cfg *config) {
		if esc != nil {
			cfg.escaper = esc
		}
	}
}

// WithLogger sets the logger used for render diagnostics. Logging is disabled
// by default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every render.
func WithObserver(observer Observer) Option {
	return func(cfg *config) {
		if observer != nil {
			cfg.observer = observer
		}
	}
}

// WithMaxDepth bounds how many layout and partial hops a single top-level
// render may take. Zero, the default, means no limit.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth >= 0 {
			cfg.maxDepth = depth
		}
	}
}

// Engine creates renderers that share a loader and escaper. It is immutable
// after New and safe for concurrent use; the renderers it creates are not.
type Engine struct {
	loader   Loader
	escaper  escape.Escaper
	logger   *slog.Logger
	observer Observer
	maxDepth int
}

// New constructs an Engine resolving templates through loader.
func New(loader Loader, options ...Option) (*Engine, error) {
	if loader == nil {
		return nil, errors.New("engine: loader is required")
	}

	cfg := &config{
		escaper:  escape.New(),
		logger:   slog.New(slog.DiscardHandler),
		observer: nopObserver{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	return &Engine{
		loader:   loader,
		escaper:  cfg.escaper,
		logger:   cfg.logger,
		observer: cfg.observer,
		maxDepth: cfg.maxDepth,
	}, nil
}

// Must panics when New fails.
func Must(e *Engine, err error) *Engine {
	if err != nil {
		panic(err)
	}
	return e
}

// Renderer returns a fresh top-level renderer.
func (e *Engine) Renderer() *Renderer {
	return e.newRenderer(KindRender, 0)
}

// Render is a shortcut for Renderer().SetTemplatePath(path).SetVars(vars).Render().
func (e *Engine) Render(path string, vars map[string]any) (string, error) {
	return e.Renderer().SetTemplatePath(path).SetVars(vars).Render()
}

// Execute renders path and writes the result to w. Nothing is written when
// the render fails.
func (e *Engine) Execute(w io.Writer, path string, vars map[string]any) error {
	out, err := e.Render(path, vars)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Escaper returns the escaper shared by every renderer of this engine.
func (e *Engine) Escaper() escape.Escaper {
	return e.escaper
}

func (e *Engine) newRenderer(kind Kind, depth int) *Renderer {
	return &Renderer{
		engine:   e,
		kind:     kind,
		depth:    depth,
		vars:     map[string]any{},
		sections: map[string]*string{},
	}
}
