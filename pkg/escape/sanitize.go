package escape

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizePolicyOnce sync.Once
	sanitizePolicy     *bluemonday.Policy
)

// Sanitize strips unsafe markup from an HTML fragment, keeping the elements and
// attributes commonly found in user generated content. Use it for markup that
// should render as HTML; use Standard.HTML for plain text.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(sanitizer().Sanitize(trimmed))
}

func sanitizer() *bluemonday.Policy {
	sanitizePolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AllowAttrs("class").OnElements("code", "pre", "span")

		sanitizePolicy = policy
	})
	return sanitizePolicy
}
