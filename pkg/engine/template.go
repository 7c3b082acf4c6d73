package engine

// Template is an executable template unit. Execute writes output to r and may
// call back into r (sections, extends, variables, partials). Errors returned
// by Execute reach the caller of Render unchanged.
type Template interface {
	Execute(r *Renderer) error
}

// Loader resolves a template path into an executable unit. Loader errors, such
// as a missing file, reach the caller of Render unchanged.
type Loader interface {
	Load(path string) (Template, error)
}

// TemplateFunc adapts a Go function into a Template.
type TemplateFunc func(r *Renderer) error

// Execute implements Template.
func (f TemplateFunc) Execute(r *Renderer) error {
	return f(r)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(path string) (Template, error)

// Load implements Loader.
func (f LoaderFunc) Load(path string) (Template, error) {
	return f(path)
}
