package varsfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-templating/internal/varsfile"
)

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		name   string
		source string
		data   string
		want   map[string]any
	}{
		{
			name:   "json",
			source: "vars.json",
			data:   `{"title": "Home", "count": 2}`,
			want:   map[string]any{"title": "Home", "count": float64(2)},
		},
		{
			name:   "jsonc",
			source: "vars.jsonc",
			data:   "{\n  // page title\n  \"title\": \"Home\",\n}",
			want:   map[string]any{"title": "Home"},
		},
		{
			name:   "yaml",
			source: "vars.yaml",
			data:   "title: Home\ntags:\n  - a\n  - b\n",
			want:   map[string]any{"title": "Home", "tags": []any{"a", "b"}},
		},
		{
			name:   "sniffed yaml",
			source: "vars.txt",
			data:   "title: Home\n",
			want:   map[string]any{"title": "Home"},
		},
		{
			name:   "empty",
			source: "vars.json",
			data:   "  \n",
			want:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := varsfile.Parse([]byte(tt.data), tt.source)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("vars mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := varsfile.Parse([]byte(`{"title": `), "vars.json"); err == nil {
		t.Fatalf("expected error for truncated json")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yml")
	if err := os.WriteFile(path, []byte("name: Ada\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := varsfile.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada"}, got); diff != "" {
		t.Fatalf("vars mismatch (-want +got):\n%s", diff)
	}

	if _, err := varsfile.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParsePairsAndMerge(t *testing.T) {
	pairs, err := varsfile.ParsePairs([]string{"title=Home", "query=a=b"})
	if err != nil {
		t.Fatalf("parse pairs: %v", err)
	}

	merged := varsfile.Merge(map[string]any{"title": "File", "lang": "en"}, pairs)
	want := map[string]any{"title": "Home", "lang": "en", "query": "a=b"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	if _, err := varsfile.ParsePairs([]string{"=x"}); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, err := varsfile.ParsePairs([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for missing separator")
	}
}
