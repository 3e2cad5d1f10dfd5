package content

import (
	"bytes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ErrMissingClosingDelimiter is returned for a document that opens a front
// matter block but never closes it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// FrontMatter holds the keys the site cares about. Other keys are ignored.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Weight      *int   `yaml:"weight"`
	Draft       bool   `yaml:"draft"`
}

// splitFrontMatter separates `---` delimited YAML from the markdown body.
// Documents without front matter come back unchanged with had == false.
func splitFrontMatter(content []byte) (fm []byte, body []byte, had bool, err error) {
	nl := []byte("\n")
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = []byte("\r\n")
	}

	open := append([]byte("---"), nl...)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return nil, rest[len(open):], true, nil
	}

	closing := append(append([]byte{}, nl...), open...)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter at end of file has no trailing newline.
		end := append(append([]byte{}, nl...), "---"...)
		if bytes.HasSuffix(rest, end) {
			return rest[:len(rest)-len(end)], nil, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx], rest[idx+len(closing):], true, nil
}

func parseFrontMatter(content []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	raw, body, had, err := splitFrontMatter(content)
	if err != nil || !had {
		return fm, body, err
	}
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return fm, nil, errors.Wrap(err, "parsing front matter")
	}
	return fm, body, nil
}
