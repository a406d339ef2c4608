// Package markdown renders article bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Render converts markdown to HTML and strips anything unsafe. Raw HTML in
// the source is sanitized rather than trusted.
func Render(source string) string {
	text := strings.TrimSpace(source)
	if text == "" {
		return ""
	}
	var out bytes.Buffer
	if err := engine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return strings.TrimSpace(sanitizer().Sanitize(out.String()))
}

// Excerpt returns the first n runes of the plain text of source.
func Excerpt(source string, n int) string {
	plain := bluemonday.StrictPolicy().Sanitize(Render(source))
	plain = strings.Join(strings.Fields(plain), " ")
	runes := []rune(plain)
	if n <= 0 || len(runes) <= n {
		return plain
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
