// Package escape provides context-aware output escaping for templates. The
// rules follow the OWASP encoding recommendations: every context has a small
// set of characters passed through verbatim and everything else is encoded.
package escape

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Escaper encodes untrusted text for a specific output context.
type Escaper interface {
	HTML(raw string) string
	Attr(raw string) string
	CSS(raw string) string
	JS(raw string) string
	URL(raw string) string
}

// Standard is the default Escaper.
type Standard struct{}

var _ Escaper = Standard{}

// New returns the default Escaper.
func New() Standard {
	return Standard{}
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// HTML escapes text placed in an HTML body.
func (Standard) HTML(raw string) string {
	return htmlReplacer.Replace(raw)
}

var attrNamedEntities = map[rune]string{
	'"': "quot",
	'&': "amp",
	'<': "lt",
	'>': "gt",
}

// Attr escapes text placed inside an HTML attribute value, quoted or not.
func (Standard) Attr(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isAlnum(r) || r == ',' || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
			continue
		}
		if isUndefinedControl(r) {
			b.WriteString("&#xFFFD;")
			continue
		}
		if name, ok := attrNamedEntities[r]; ok {
			b.WriteString("&" + name + ";")
			continue
		}
		if r > 0xff {
			fmt.Fprintf(&b, "&#x%04X;", r)
			continue
		}
		fmt.Fprintf(&b, "&#x%02X;", r)
	}
	return b.String()
}

// CSS escapes text placed in a CSS value or selector. Each escape is followed
// by a space so a following hex digit is not absorbed into the escape.
func (Standard) CSS(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isAlnum(r) {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, "\\%X ", r)
	}
	return b.String()
}

// JS escapes text placed in a JavaScript string literal. Runes outside the
// basic multilingual plane are written as UTF-16 surrogate pairs.
func (Standard) JS(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case isAlnum(r) || r == ',' || r == '.' || r == '_':
			b.WriteRune(r)
		case r < 0x80:
			fmt.Fprintf(&b, "\\x%02X", r)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04X\\u%04X", hi, lo)
		default:
			fmt.Fprintf(&b, "\\u%04X", r)
		}
	}
	return b.String()
}

// URL percent-encodes text used as a URL component (RFC 3986). Only the
// unreserved characters are kept; a space becomes %20.
func (Standard) URL(raw string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isUnreserved(c byte) bool {
	return isAlnum(rune(c)) || c == '-' || c == '_' || c == '.' || c == '~'
}

// isUndefinedControl reports control characters that have no HTML entity.
func isUndefinedControl(r rune) bool {
	if r <= 0x1f && r != '\t' && r != '\n' && r != '\r' {
		return true
	}
	return r >= 0x7f && r <= 0x9f
}
