package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type goldmarkRenderer struct {
	md goldmark.Markdown
}

func newGoldmark(opts Options) *goldmarkRenderer {
	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	if opts.ExternalLinksTarget != "" || len(opts.ExternalLinksRel) > 0 {
		t := &externalLinks{target: opts.ExternalLinksTarget, rel: strings.Join(opts.ExternalLinksRel, " ")}
		parserOpts = append(parserOpts, parser.WithASTTransformers(util.Prioritized(t, 500)))
	}
	return &goldmarkRenderer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
	)}
}

func (r *goldmarkRenderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type externalLinks struct {
	target string
	rel    string
}

func (t *externalLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok || !isExternal(string(link.Destination)) {
			return ast.WalkContinue, nil
		}
		if t.target != "" {
			link.SetAttributeString("target", []byte(t.target))
		}
		if t.rel != "" {
			link.SetAttributeString("rel", []byte(t.rel))
		}
		return ast.WalkContinue, nil
	})
}
