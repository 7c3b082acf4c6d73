// Package templating renders template files with sections, layout inheritance
// and partials. The root package wires the pongo2 loader into the engine; use
// pkg/engine directly for other loaders.
//
// Building an engine here turns pongo2 autoescaping off for the whole process,
// since template output is raw and escaping is explicit. Other pongo2 users in
// the same binary see the same setting.
package templating

import (
	"fmt"
	"io/fs"

	"github.com/goliatone/go-templating/pkg/engine"
	"github.com/goliatone/go-templating/pkg/loader/pongo"
)

// Engine creates renderers; alias of engine.Engine.
type Engine = engine.Engine

// Renderer holds the state of a single render; alias of engine.Renderer.
type Renderer = engine.Renderer

// Option configures an Engine; alias of engine.Option.
type Option = engine.Option

// LayoutContentSection names the section a layout reads its child output from.
const LayoutContentSection = engine.LayoutContentSection

// NewFS builds an engine loading pongo2 templates with the ".tpl" extension
// from fsys.
func NewFS(fsys fs.FS, options ...Option) (*Engine, error) {
	return newEngine([]pongo.Option{pongo.WithFS(fsys)}, options...)
}

// NewDir builds an engine loading pongo2 templates from a directory on disk.
func NewDir(dir string, options ...Option) (*Engine, error) {
	return newEngine([]pongo.Option{pongo.WithBaseDir(dir)}, options...)
}

// NewWithLoader builds an engine from explicit pongo2 loader options.
func NewWithLoader(loaderOptions []pongo.Option, options ...Option) (*Engine, error) {
	return newEngine(loaderOptions, options...)
}

func newEngine(loaderOptions []pongo.Option, options ...Option) (*Engine, error) {
	loader, err := pongo.New(loaderOptions...)
	if err != nil {
		return nil, fmt.Errorf("templating: %w", err)
	}
	return engine.New(loader, options...)
}
