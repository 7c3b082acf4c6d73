// Package helpers provides the string helpers template loaders expose to
// template bodies: the context escapers plus HTML sanitising and markdown.
package helpers

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/goliatone/go-templating/pkg/escape"
)

// Func is a template helper transforming one string into another.
type Func func(string) string

// Funcs returns the helper set bound to esc. Escaping helpers are named after
// their output context.
func Funcs(esc escape.Escaper) map[string]Func {
	return map[string]Func{
		"html":     esc.HTML,
		"attr":     esc.Attr,
		"css":      esc.CSS,
		"js":       esc.JS,
		"url":      esc.URL,
		"sanitize": escape.Sanitize,
		"markdown": Markdown,
	}
}

var (
	markdownOnce sync.Once
	markdownConv goldmark.Markdown
)

func converter() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConv = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		)
	})
	return markdownConv
}

// Markdown converts markdown source to HTML. Raw HTML embedded in the source
// is dropped by goldmark's default renderer, and the result is passed through
// escape.Sanitize.
func Markdown(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := converter().Convert([]byte(src), &buf); err != nil {
		return escape.New().HTML(src)
	}
	return escape.Sanitize(buf.String())
}
