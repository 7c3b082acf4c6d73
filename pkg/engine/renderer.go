package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/goliatone/go-templating/pkg/capture"
)

// LayoutContentSection is the section a layout reads its child's output from.
const LayoutContentSection = "layoutContent"

// Renderer holds the state of a single render: template path, variables,
// parent layout and captured sections. Setters return the renderer so calls
// can be chained. A Renderer renders once and is then discarded.
type Renderer struct {
	engine *Engine
	kind   Kind
	depth  int

	templatePath string
	vars         map[string]any
	extendsPath  string

	// nil values mark sections whose capture never completed.
	sections      map[string]*string
	activeSection string
	capturing     bool

	// scope is the variable snapshot taken when the body starts.
	scope   map[string]any
	capture capture.Stack
}

var (
	_ io.Writer       = (*Renderer)(nil)
	_ io.StringWriter = (*Renderer)(nil)
)

// SetTemplatePath records the template to render.
func (r *Renderer) SetTemplatePath(path string) *Renderer {
	r.templatePath = path
	return r
}

// TemplatePath returns the configured template path.
func (r *Renderer) TemplatePath() string {
	return r.templatePath
}

// SetVars replaces the variable bag with a copy of vars.
func (r *Renderer) SetVars(vars map[string]any) *Renderer {
	r.vars = cloneVars(vars)
	return r
}

// AddVar sets a single variable. Called from a template body it does not
// change the variables the body already sees, but the value is passed on to
// the parent layout.
func (r *Renderer) AddVar(key string, value any) *Renderer {
	r.vars[key] = value
	return r
}

// SetExtends records the parent layout. An empty path clears it.
func (r *Renderer) SetExtends(path string) *Renderer {
	r.extendsPath = path
	return r
}

// Extends returns the parent layout path, empty when none is set.
func (r *Renderer) Extends() string {
	return r.extendsPath
}

// SetSections replaces all sections with a copy of sections.
func (r *Renderer) SetSections(sections map[string]string) *Renderer {
	r.sections = make(map[string]*string, len(sections))
	for name, content := range sections {
		r.AddSection(name, content)
	}
	return r
}

// AddSection stores already rendered content under name, bypassing capture.
func (r *Renderer) AddSection(name, content string) *Renderer {
	r.sections[name] = &content
	return r
}

// SectionStart begins capturing output into the named section. The previous
// content of the section is dropped. Only one section captures at a time;
// starting another one while a section is open fails with ErrSectionActive
// and leaves the open section untouched.
func (r *Renderer) SectionStart(name string) error {
	if r.capturing {
		return fmt.Errorf("%w: %q is still open, cannot start %q", ErrSectionActive, r.activeSection, name)
	}
	r.capturing = true
	r.activeSection = name
	r.sections[name] = nil
	r.capture.Push()
	return nil
}

// SectionEnd stops capturing and stores everything written since the matching
// SectionStart. It must only be called while a section is open; the outcome
// of an unmatched call is unspecified.
func (r *Renderer) SectionEnd() {
	content := r.capture.Pop()
	r.sections[r.activeSection] = &content
	r.activeSection = ""
	r.capturing = false
}

// HasSection reports whether name was declared, even if its capture never
// completed.
func (r *Renderer) HasSection(name string) bool {
	_, ok := r.sections[name]
	return ok
}

// Section returns the content of name, or an empty string when the section is
// missing or its capture never completed.
func (r *Renderer) Section(name string) string {
	if content := r.sections[name]; content != nil {
		return *content
	}
	return ""
}

// Var returns the variable visible to the template body, nil when unset.
func (r *Renderer) Var(name string) any {
	return r.scope[name]
}

// Lookup returns the variable visible to the template body and whether it
// exists.
func (r *Renderer) Lookup(name string) (any, bool) {
	value, ok := r.scope[name]
	return value, ok
}

// Vars returns a copy of the variables visible to the template body.
func (r *Renderer) Vars() map[string]any {
	return cloneVars(r.scope)
}

// Write appends template output to the innermost capture.
func (r *Renderer) Write(p []byte) (int, error) {
	return r.capture.Write(p)
}

// WriteString appends template output to the innermost capture.
func (r *Renderer) WriteString(s string) (int, error) {
	return r.capture.WriteString(s)
}

// Partial renders path on an isolated renderer that only sees vars, and
// returns its output. The caller's sections, layout and capture are not
// affected.
func (r *Renderer) Partial(path string, vars map[string]any) (string, error) {
	r.engine.logger.Debug("render partial", "path", path, "caller", r.templatePath, "depth", r.depth+1)

	return r.engine.newRenderer(KindPartial, r.depth+1).
		SetTemplatePath(path).
		SetVars(vars).
		Render()
}

// HTML escapes raw for an HTML body.
func (r *Renderer) HTML(raw string) string { return r.engine.escaper.HTML(raw) }

// Attr escapes raw for an HTML attribute value.
func (r *Renderer) Attr(raw string) string { return r.engine.escaper.Attr(raw) }

// CSS escapes raw for a CSS context.
func (r *Renderer) CSS(raw string) string { return r.engine.escaper.CSS(raw) }

// JS escapes raw for a JavaScript string literal.
func (r *Renderer) JS(raw string) string { return r.engine.escaper.JS(raw) }

// URL escapes raw for a URL component.
func (r *Renderer) URL(raw string) string { return r.engine.escaper.URL(raw) }

// Render executes the template and, when it declared a parent layout, renders
// the layout with the output available as the "layoutContent" section. Errors
// from the loader or the template body are returned unchanged.
func (r *Renderer) Render() (string, error) {
	if r.templatePath == "" {
		return "", ErrTemplatePathRequired
	}
	if limit := r.engine.maxDepth; limit > 0 && r.depth > limit {
		return "", fmt.Errorf("%w: %q at depth %d", ErrMaxDepthExceeded, r.templatePath, r.depth)
	}

	start := time.Now()
	out, err := r.render()
	r.engine.observer.ObserveRender(RenderEvent{
		Path:     r.templatePath,
		Kind:     r.kind,
		Depth:    r.depth,
		Duration: time.Since(start),
		Err:      err,
	})
	return out, err
}

func (r *Renderer) render() (string, error) {
	logger := r.engine.logger
	logger.Debug("render template", "path", r.templatePath, "kind", r.kind, "depth", r.depth)

	tpl, err := r.engine.loader.Load(r.templatePath)
	if err != nil {
		return "", err
	}

	r.scope = cloneVars(r.vars)

	base := r.capture.Depth()
	r.capture.Push()
	if err := tpl.Execute(r); err != nil {
		r.unwind(base)
		return "", err
	}

	// Sections left open by the body are dropped, they stay declared but empty.
	for r.capture.Depth() > base+1 {
		r.capture.Pop()
	}
	r.activeSection = ""
	r.capturing = false

	content := r.capture.Pop()

	if r.extendsPath == "" {
		return content, nil
	}

	logger.Debug("extend layout", "path", r.templatePath, "layout", r.extendsPath, "depth", r.depth+1)

	parent := r.engine.newRenderer(KindExtends, r.depth+1).
		SetTemplatePath(r.extendsPath).
		SetVars(r.vars)
	parent.sections = cloneSections(r.sections)
	parent.AddSection(LayoutContentSection, content)

	return parent.Render()
}

func (r *Renderer) unwind(base int) {
	for r.capture.Depth() > base {
		r.capture.Pop()
	}
	r.activeSection = ""
	r.capturing = false
}

func cloneVars(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cloneSections(in map[string]*string) map[string]*string {
	out := make(map[string]*string, len(in))
	for name, content := range in {
		if content == nil {
			out[name] = nil
			continue
		}
		copied := *content
		out[name] = &copied
	}
	return out
}
