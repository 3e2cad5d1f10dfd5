// Package render turns markdown page bodies into HTML.
package render

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Engines.
const (
	EngineGomarkdown = "gomarkdown"
	EngineGoldmark   = "goldmark"
)

// Markdown converts a markdown body to an HTML fragment.
type Markdown interface {
	Render(source []byte) ([]byte, error)
}

// Options control link decoration for links leaving the site.
type Options struct {
	Engine              string
	ExternalLinksTarget string
	ExternalLinksRel    []string
}

// New returns the renderer for opts.Engine; the empty engine is gomarkdown.
func New(opts Options) (Markdown, error) {
	switch opts.Engine {
	case "", EngineGomarkdown:
		return newGomarkdown(opts)
	case EngineGoldmark:
		return newGoldmark(opts), nil
	default:
		return nil, errors.Errorf("unknown markdown engine %q", opts.Engine)
	}
}

func isExternal(dest string) bool {
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https" || strings.HasPrefix(dest, "//")
}
