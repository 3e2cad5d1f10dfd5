// Package content reads markdown documentation pages from disk.
package content

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/talos-systems/sidero-docs/nav"
)

// Options describe where pages live and how their URLs are formed.
type Options struct {
	BaseDir    string
	Pattern    string
	PathPrefix string
	LowerSlugs bool
}

// Document is a loaded page together with its body.
type Document struct {
	Page        nav.Page
	Description string
	Body        []byte
}

// Collection is the set of documents of one build, in lexical path order.
type Collection struct {
	docs  []Document
	byURL map[string]int
}

// Pages returns the resolver view of every document.
func (c *Collection) Pages() []nav.Page {
	out := make([]nav.Page, len(c.docs))
	for i, d := range c.docs {
		out[i] = d.Page
	}
	return out
}

// Documents returns every document in path order.
func (c *Collection) Documents() []Document {
	return append([]Document(nil), c.docs...)
}

// ByURL finds the document served at url.
func (c *Collection) ByURL(url string) (Document, bool) {
	i, ok := c.byURL[url]
	if !ok {
		return Document{}, false
	}
	return c.docs[i], true
}

func (c *Collection) Len() int {
	return len(c.docs)
}

// Load walks opts.BaseDir and reads every file matching opts.Pattern.
// Drafts are skipped. Files that cannot be placed (broken front matter,
// outside a version directory, URL clashes) are skipped and reported as
// warnings; only filesystem failures are errors.
func Load(opts Options) (*Collection, []error, error) {
	if opts.Pattern == "" {
		opts.Pattern = "**/*.md"
	}
	pattern := strings.Split(filepath.ToSlash(opts.Pattern), "/")

	var rels []string
	err := filepath.WalkDir(opts.BaseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != opts.BaseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(opts.BaseDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchSegments(pattern, strings.Split(rel, "/")) {
			rels = append(rels, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "walking %s", opts.BaseDir)
	}
	sort.Strings(rels)

	c := &Collection{byURL: make(map[string]int, len(rels))}
	var warnings []error
	for _, rel := range rels {
		raw, err := os.ReadFile(filepath.Join(opts.BaseDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		doc, err := parseDocument(opts, rel, raw)
		if err != nil {
			warnings = append(warnings, &nav.ContentMismatchError{Page: pageStub(rel), Reason: err.Error(), Err: err})
			continue
		}
		if doc == nil {
			continue
		}
		if doc.Page.Version == "" {
			warnings = append(warnings, &nav.ContentMismatchError{Page: doc.Page, Reason: "file is not inside a version directory"})
			continue
		}
		if prev, dup := c.byURL[doc.Page.URL]; dup {
			warnings = append(warnings, &nav.ContentMismatchError{Page: doc.Page, Reason: "URL " + doc.Page.URL + " already used by " + c.docs[prev].Page.Path})
			continue
		}
		c.byURL[doc.Page.URL] = len(c.docs)
		c.docs = append(c.docs, *doc)
	}
	return c, warnings, nil
}

// pageStub identifies a file that could not be parsed.
func pageStub(rel string) nav.Page {
	p := nav.Page{Path: rel}
	if segments := strings.Split(rel, "/"); len(segments) > 1 {
		p.Version = segments[0]
	}
	return p
}

func parseDocument(opts Options, rel string, raw []byte) (*Document, error) {
	fm, body, err := parseFrontMatter(raw)
	if err != nil {
		return nil, err
	}
	if fm.Draft {
		return nil, nil
	}

	segments := strings.Split(rel, "/")
	name := strings.TrimSuffix(segments[len(segments)-1], path.Ext(rel))

	page := nav.Page{
		Path:     rel,
		Title:    fm.Title,
		Category: fm.Category,
		Weight:   fm.Weight,
	}
	if page.Title == "" {
		page.Title = titleFromSlug(name)
	}
	if len(segments) > 1 {
		page.Version = segments[0]
	}
	if page.Category == "" && len(segments) > 2 {
		page.Category = titleFromSlug(segments[1])
	}

	slugs := make([]string, 0, len(segments))
	for _, s := range segments[1 : len(segments)-1] {
		slugs = append(slugs, slugify(s, opts.LowerSlugs))
	}
	if name != "index" && name != "_index" {
		slugs = append(slugs, slugify(name, opts.LowerSlugs))
	}
	page.URL = pageURL(opts.PathPrefix, page.Version, slugs)

	return &Document{Page: page, Description: fm.Description, Body: body}, nil
}

func pageURL(prefix, version string, slugs []string) string {
	parts := append([]string{"/", strings.Trim(prefix, "/"), version}, slugs...)
	u := path.Join(parts...)
	if u == "/" {
		return u
	}
	return u + "/"
}

func titleFromSlug(slug string) string {
	slug = strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(strings.TrimSpace(slug))
}

func slugify(s string, lower bool) string {
	s = strings.Join(strings.Fields(s), "-")
	if lower {
		s = strings.ToLower(s)
	}
	return s
}

// matchSegments matches a slash separated path against a pattern in which
// "**" stands for any number of directories.
func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(segments); i++ {
			if matchSegments(pattern[1:], segments[i:]) {
				return true
			}
		}
		return false
	}
	if len(segments) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], segments[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}
