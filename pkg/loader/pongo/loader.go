// Package pongo loads template files with pongo2 and runs them as engine
// templates. Every renderer callback is bound into the template context:
//
//	{{ extends("layout") }}
//	{{ section_start("title") }}Home{{ section_end() }}
//	<p>Hello {{ html(name) }}</p>
//	{{ partial("card", "title", name, "count", 3) }}
//
// and a layout prints the child output with {{ layoutContent }} or
// {{ section("layoutContent") }}.
package pongo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-templating/pkg/engine"
)

// Option configures the loader before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	templateFn map[string]any
	globalData map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension (".tpl"). Paths
// without the extension get it appended on load.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithTemplateFunc registers helper functions or filters. pongo2 filter
// functions become filters, other functions become globals.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values visible to every template. Render variables with
// the same name take precedence.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Loader implements engine.Loader on top of a pongo2 template set. Templates
// are parsed on every Load.
type Loader struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	baseDir     string
	templates   fs.FS
	tplExt      string
}

var _ engine.Loader = (*Loader)(nil)

// New constructs a Loader. Autoescaping is switched off in pongo2, which is a
// process-wide setting: template output is raw unless a template escapes it
// explicitly with html(), attr(), css(), js() or url().
func New(options ...Option) (*Loader, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("pongo: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	pongo2.SetAutoescape(false)
	registerDefaultFilters()

	l := &Loader{
		templateSet: pongo2.NewSet("templating", loaders...),
		baseDir:     cfg.baseDir,
		templates:   cfg.templates,
		tplExt:      cfg.extension,
	}

	if err := l.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("pongo: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := l.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("pongo: register template func %q: %w", name, err)
		}
	}

	return l, nil
}

// Load implements engine.Loader. A path that resolves to no file returns an
// error wrapping engine.ErrTemplateNotFound.
func (l *Loader) Load(path string) (engine.Template, error) {
	templatePath := l.resolve(path)
	if !l.exists(templatePath) {
		return nil, fmt.Errorf("pongo: load template %q: %w", templatePath, engine.ErrTemplateNotFound)
	}

	tmpl, err := l.templateSet.FromFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", templatePath, err)
	}
	return &unit{loader: l, path: templatePath, tmpl: tmpl}, nil
}

// FromString parses inline template source into an engine template.
func (l *Loader) FromString(source string) (engine.Template, error) {
	tmpl, err := l.templateSet.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("pongo: parse template string: %w", err)
	}
	return &unit{loader: l, path: "<string>", tmpl: tmpl}, nil
}

// RegisterFilter registers a template filter. Filters are global in pongo2.
func (l *Loader) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext merges data into the values visible to every template. Keys
// that are not pongo2 identifiers are skipped. Call it during setup; it must
// not race with renders in progress.
func (l *Loader) GlobalContext(data map[string]any) error {
	if l == nil || l.templateSet == nil {
		return errors.New("pongo: loader is nil")
	}
	if len(data) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.templateSet.Globals == nil {
		l.templateSet.Globals = make(pongo2.Context)
	}
	for key, value := range convertToContext(data) {
		if !isIdentifier(key) {
			continue
		}
		l.templateSet.Globals[key] = value
	}
	return nil
}

// registerTemplateFunc installs fn as a filter when it has the pongo2 filter
// signature and as a global function otherwise. An existing filter of the
// same name is kept.
func (l *Loader) registerTemplateFunc(name string, fn any) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return nil
	}

	var filter pongo2.FilterFunction
	switch f := fn.(type) {
	case pongo2.FilterFunction:
		filter = f
	case func(*pongo2.Value, *pongo2.Value) (*pongo2.Value, *pongo2.Error):
		filter = f
	}
	if filter != nil {
		if pongo2.FilterExists(name) {
			return nil
		}
		return pongo2.RegisterFilter(name, filter)
	}

	if !isCallable(fn) {
		return fmt.Errorf("%q is not a function", name)
	}
	if !isIdentifier(name) {
		return fmt.Errorf("%q is not a valid template identifier", name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.templateSet.Globals[name] = fn
	return nil
}

// resolve cleans name into a slash path rooted at the template source, so
// ".." segments never leave it.
func (l *Loader) resolve(name string) string {
	templatePath := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(name)), "/")
	if !strings.HasSuffix(templatePath, l.tplExt) {
		templatePath += l.tplExt
	}
	return templatePath
}

func (l *Loader) exists(path string) bool {
	if l.baseDir != "" {
		full := filepath.Join(l.baseDir, filepath.FromSlash(path))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return true
		}
	}
	if l.templates != nil && fs.ValidPath(path) {
		if info, err := fs.Stat(l.templates, path); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}

func convertToContext(in map[string]any) pongo2.Context {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = convertValue(value)
	}
	return out
}

func convertValue(value any) any {
	switch v := value.(type) {
	case pongo2.Context:
		return convertMap(map[string]any(v))
	case map[string]any:
		return convertMap(v)
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, convertValue(item))
		}
		return out
	default:
		return value
	}
}

func convertMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = convertValue(value)
	}
	return out
}

var filtersOnce sync.Once

// registerDefaultFilters adds trim and lowerfirst unless another package
// registered filters under those names first.
func registerDefaultFilters() {
	filtersOnce.Do(func() {
		for name, filter := range map[string]pongo2.FilterFunction{
			"trim":       filterTrim,
			"lowerfirst": filterLowerFirst,
		} {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, filter)
			}
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterLowerFirst lowercases the first non-space rune.
func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	text := in.String()
	i := strings.IndexFunc(text, func(r rune) bool { return !unicode.IsSpace(r) })
	if i < 0 {
		return pongo2.AsValue(text), nil
	}
	r, size := utf8.DecodeRuneInString(text[i:])
	return pongo2.AsValue(text[:i] + string(unicode.ToLower(r)) + text[i+size:]), nil
}
