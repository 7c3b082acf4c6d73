package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func templateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "layout.tpl"), `<h1>{{ section("title") }}</h1>{{ layoutContent }}`)
	writeFile(t, filepath.Join(dir, "page.tpl"),
		`{{ extends("layout") }}{{ section_start("title") }}{{ title }}{{ section_end() }}<p>{{ html(body) }}</p>`)
	return dir
}

func TestRenderCmd_Stdout(t *testing.T) {
	dir := templateDir(t)
	varsPath := filepath.Join(t.TempDir(), "vars.yaml")
	writeFile(t, varsPath, "title: Hello\nbody: from file\n")

	cmd := renderCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"page", "--dir", dir, "--vars", varsPath, "--set", "body=<b>set</b>"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := `<h1>Hello</h1><p>&lt;b&gt;set&lt;/b&gt;</p>`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCmd_Output(t *testing.T) {
	dir := templateDir(t)
	output := filepath.Join(t.TempDir(), "page.html")

	cmd := renderCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"page", "--dir", dir, "--set", "title=T", "--set", "body=b", "--output", output})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if diff := cmp.Diff(`<h1>T</h1><p>b</p>`, string(data)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCmd_MissingTemplate(t *testing.T) {
	cmd := renderCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"nope", "--dir", templateDir(t)})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestPrompt_SkipsBlankKeys(t *testing.T) {
	vars, err := prompt([]string{"", "  "})
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if len(vars) != 0 {
		t.Fatalf("expected no vars, got %v", vars)
	}
}
