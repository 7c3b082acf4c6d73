package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MapLoader keeps templates in memory keyed by path. It is useful for Go-native
// templates and in tests.
type MapLoader struct {
	mu        sync.RWMutex
	templates map[string]Template
}

var _ Loader = (*MapLoader)(nil)

// NewMapLoader creates an empty loader.
func NewMapLoader() *MapLoader {
	return &MapLoader{
		templates: make(map[string]Template),
	}
}

// Register adds a template under path. Duplicate paths return an error.
func (l *MapLoader) Register(path string, tpl Template) error {
	if tpl == nil {
		return fmt.Errorf("engine: template is required")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("engine: template path is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.templates[path]; exists {
		return fmt.Errorf("engine: template %q already registered", path)
	}
	l.templates[path] = tpl
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (l *MapLoader) MustRegister(path string, tpl Template) {
	if err := l.Register(path, tpl); err != nil {
		panic(err)
	}
}

// Load implements Loader.
func (l *MapLoader) Load(path string) (Template, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tpl, ok := l.templates[path]
	if !ok {
		return nil, fmt.Errorf("engine: load %q: %w", path, ErrTemplateNotFound)
	}
	return tpl, nil
}

// Has reports whether a template is registered under path.
func (l *MapLoader) Has(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.templates[path]
	return ok
}

// List returns the registered paths, sorted.
func (l *MapLoader) List() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	paths := make([]string, 0, len(l.templates))
	for path := range l.templates {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
