package engine

import "errors"

var (
	// ErrTemplatePathRequired is returned by Render when no template path was
	// configured. No template body runs.
	ErrTemplatePathRequired = errors.New("engine: template path must be set")

	// ErrSectionActive is returned by SectionStart while another section is
	// still capturing.
	ErrSectionActive = errors.New("engine: section already active")

	// ErrMaxDepthExceeded is returned when a chain of layouts and partials goes
	// deeper than the limit configured with WithMaxDepth.
	ErrMaxDepthExceeded = errors.New("engine: maximum render depth exceeded")

	// ErrTemplateNotFound is returned by loaders that do not know a path.
	ErrTemplateNotFound = errors.New("engine: template not found")
)
