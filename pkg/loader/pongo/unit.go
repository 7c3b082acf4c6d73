package pongo

import (
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-templating/pkg/engine"
	"github.com/goliatone/go-templating/pkg/helpers"
)

type unit struct {
	loader *Loader
	path   string
	tmpl   *pongo2.Template
}

// Execute binds the renderer into a pongo2 context and streams the output
// straight into the renderer, so section markers see writes in order.
// Variables whose names are not pongo2 identifiers are not bound; they stay
// reachable through the renderer.
func (u *unit) Execute(r *engine.Renderer) error {
	var failed error
	ctx := bindings(r, &failed)
	for name, value := range convertToContext(r.Vars()) {
		if !isIdentifier(name) {
			continue
		}
		// engine names win over render variables
		if _, bound := ctx[name]; bound {
			continue
		}
		ctx[name] = value
	}

	if err := u.tmpl.ExecuteWriterUnbuffered(ctx, r); err != nil {
		// pongo2 errors do not unwrap, report the engine error instead
		if failed != nil {
			return fmt.Errorf("pongo: execute template %q: %w", u.path, failed)
		}
		return fmt.Errorf("pongo: execute template %q: %w", u.path, err)
	}
	return nil
}

// bindings records the first error returned by a renderer callback of this
// unit in failed.
func bindings(r *engine.Renderer, failed *error) pongo2.Context {
	fail := func(err error) error {
		if err != nil && *failed == nil {
			*failed = err
		}
		return err
	}

	ctx := pongo2.Context{
		"section_start": func(name *pongo2.Value) (string, error) {
			return "", fail(r.SectionStart(name.String()))
		},
		"section_end": func() string {
			r.SectionEnd()
			return ""
		},
		"section": func(name *pongo2.Value) string {
			return r.Section(name.String())
		},
		"has_section": func(name *pongo2.Value) bool {
			return r.HasSection(name.String())
		},
		"add_var": func(key, value *pongo2.Value) string {
			r.AddVar(key.String(), value.Interface())
			return ""
		},
		"extends": func(path *pongo2.Value) string {
			r.SetExtends(path.String())
			return ""
		},
		"partial": func(path *pongo2.Value, args ...*pongo2.Value) (string, error) {
			vars, err := partialVars(args)
			if err != nil {
				return "", fail(fmt.Errorf("partial %q: %w", path.String(), err))
			}
			// not recorded: a missing partial must not read as a missing page
			return r.Partial(path.String(), vars)
		},
	}

	for name, fn := range helpers.Funcs(r) {
		ctx[name] = stringHelper(fn)
	}

	if r.HasSection(engine.LayoutContentSection) {
		ctx[engine.LayoutContentSection] = r.Section(engine.LayoutContentSection)
	}
	return ctx
}

func stringHelper(fn helpers.Func) func(*pongo2.Value) string {
	return func(in *pongo2.Value) string {
		if in == nil || in.IsNil() {
			return ""
		}
		return fn(in.String())
	}
}

// partialVars accepts either a single map or alternating key/value pairs.
func partialVars(args []*pongo2.Value) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	if len(args) == 1 {
		if m, ok := args[0].Interface().(map[string]any); ok {
			return m, nil
		}
		if ctx, ok := args[0].Interface().(pongo2.Context); ok {
			return map[string]any(ctx), nil
		}
		return nil, fmt.Errorf("single argument must be a map, got %T", args[0].Interface())
	}
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("expected key/value pairs, got %d arguments", len(args))
	}
	vars := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		vars[args[i].String()] = args[i+1].Interface()
	}
	return vars, nil
}

// isIdentifier reports whether pongo2 accepts name as a context key: one or
// more ASCII letters, digits or underscores.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') && !('0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
