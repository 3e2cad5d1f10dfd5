package render

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/pkg/errors"
)

type gomarkdownRenderer struct {
	flags html.Flags
}

func newGomarkdown(opts Options) (*gomarkdownRenderer, error) {
	flags := html.CommonFlags
	switch opts.ExternalLinksTarget {
	case "":
	case "_blank":
		flags |= html.HrefTargetBlank
	default:
		return nil, errors.Errorf("gomarkdown only supports the _blank link target, got %q", opts.ExternalLinksTarget)
	}
	for _, rel := range opts.ExternalLinksRel {
		switch rel {
		case "noopener":
			flags |= html.NoopenerLinks
		case "noreferrer":
			flags |= html.NoreferrerLinks
		case "nofollow":
			flags |= html.NofollowLinks
		default:
			return nil, errors.Errorf("gomarkdown does not support link rel %q", rel)
		}
	}
	return &gomarkdownRenderer{flags: flags}, nil
}

func (r *gomarkdownRenderer) Render(source []byte) ([]byte, error) {
	// Parsers and renderers carry per-document state.
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: r.flags})
	return markdown.ToHTML(source, p, renderer), nil
}
