// Package engine implements the render, section and extends state machine.
//
// An Engine is a factory holding the shared collaborators (template loader,
// escaper, logger, observer). Every render runs on a fresh Renderer obtained
// from Engine.Renderer: the top-level render, every partial and every layout
// hop. A Renderer is used once and discarded.
//
// Template bodies write to the Renderer (it is an io.Writer) and may call back
// into it to open and close sections, declare a parent layout, add variables
// and render partials:
//
//	page := engine.TemplateFunc(func(r *engine.Renderer) error {
//	    r.SetExtends("layout")
//	    if err := r.SectionStart("title"); err != nil {
//	        return err
//	    }
//	    fmt.Fprint(r, "Home")
//	    r.SectionEnd()
//	    fmt.Fprintf(r, "<p>Hello %s</p>", r.HTML(fmt.Sprint(r.Var("name"))))
//	    return nil
//	})
//
// A layout reads the child output from the "layoutContent" section and any
// other section by name. Layouts may themselves extend another layout; the
// chain ends at the first template that does not call SetExtends. Cyclic
// chains recurse without bound unless the engine is built WithMaxDepth.
package engine
