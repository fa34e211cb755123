// Package docs turns extension README markdown into sanitized HTML.
package docs

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// defaultTags mirrors the classic sanitize-html default allowlist.
var defaultTags = []string{
	"h3", "h4", "h5", "h6", "blockquote", "p", "a", "ul", "ol", "nl", "li",
	"b", "i", "strong", "em", "strike", "code", "hr", "br", "div",
	"table", "thead", "caption", "tbody", "tr", "th", "td", "pre",
}

// Compiler renders markdown with headings shifted down one level and
// strips everything outside the allowlist.
type Compiler struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewCompiler() *Compiler {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(headingShift{offset: 1}, 100)),
		),
		// Raw HTML goes through and is cleaned by the policy below.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	return &Compiler{md: md, policy: Policy()}
}

// Policy is the sanitizer applied to compiled documentation.
func Policy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(defaultTags...)
	p.AllowElements("h1", "h2", "img", "del")
	p.AllowAttrs("href", "name", "target").OnElements("a")
	p.AllowAttrs("src").OnElements("img")
	p.AllowURLSchemes("http", "https", "ftp", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}

func (c *Compiler) Compile(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return c.policy.Sanitize(buf.String()), nil
}

type headingShift struct {
	offset int
}

func (h headingShift) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if heading, ok := n.(*ast.Heading); ok && entering {
			heading.Level = min(heading.Level+h.offset, 6)
		}
		return ast.WalkContinue, nil
	})
}
