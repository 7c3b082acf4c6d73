package helpers_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-templating/pkg/escape"
	"github.com/goliatone/go-templating/pkg/helpers"
)

func TestFuncs_Names(t *testing.T) {
	funcs := helpers.Funcs(escape.New())

	var names []string
	for _, name := range []string{"html", "attr", "css", "js", "url", "sanitize", "markdown"} {
		if _, ok := funcs[name]; ok {
			names = append(names, name)
		}
	}
	want := []string{"html", "attr", "css", "js", "url", "sanitize", "markdown"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("helper names mismatch (-want +got):\n%s", diff)
	}
	if got := funcs["html"]("<b>"); got != "&lt;b&gt;" {
		t.Fatalf("html helper: got %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	got := helpers.Markdown("# Title\n\nSome **bold** text")
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Title</h1>") {
		t.Fatalf("expected heading, got %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Fatalf("expected strong text, got %q", got)
	}
}

func TestMarkdown_DropsScripts(t *testing.T) {
	got := helpers.Markdown("hello <script>alert(1)</script>")
	if strings.Contains(got, "<script") {
		t.Fatalf("script survived markdown conversion: %q", got)
	}
	if helpers.Markdown("") != "" {
		t.Fatalf("expected empty output for empty input")
	}
}
