// Package site assembles one build of the documentation site: the loaded
// configuration, the pages on disk and the resolved sidebar.
package site

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/talos-systems/sidero-docs/config"
	"github.com/talos-systems/sidero-docs/content"
	"github.com/talos-systems/sidero-docs/nav"
	"github.com/talos-systems/sidero-docs/render"
)

// Site is an immutable snapshot of everything needed to serve or write the
// documentation.
type Site struct {
	Config   *config.Site
	Docs     *content.Collection
	Tree     *nav.SidebarTree
	Markdown render.Markdown
	// Scripts are public paths of bundled javascript, in a stable order.
	Scripts []string

	BuildID string
	BuiltAt time.Time

	routes    []string
	redirects map[string]string
}

// Build loads content for cfg and resolves the sidebar. Content problems
// come back as warnings; only unusable configuration or unreadable content
// is an error.
func Build(cfg *config.Site) (*Site, []error, error) {
	docsOpts, ok := cfg.SourceDocs()
	if !ok {
		return nil, nil, errors.Errorf("no %s plugin configured", config.KindSourceDocs)
	}

	order, err := cfg.OrderSpec()
	if err != nil {
		return nil, nil, err
	}
	policy, err := nav.ParseUnlistedPolicy(cfg.UnlistedPolicy)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	md, err := render.New(render.Options{
		Engine:              docsOpts.Remark.Engine,
		ExternalLinksTarget: docsOpts.Remark.ExternalLinksTarget,
		ExternalLinksRel:    docsOpts.Remark.ExternalLinksRel,
	})
	if err != nil {
		return nil, nil, err
	}

	docs, warnings, err := content.Load(content.Options{
		BaseDir:    cfg.Path(docsOpts.BaseDir),
		Pattern:    docsOpts.Path,
		PathPrefix: docsOpts.PathPrefix,
		LowerSlugs: cfg.Permalinks.Slugify.Lower,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading content")
	}

	tree, navWarnings, err := nav.Resolve(docs.Pages(), order, nav.WithUnlistedPolicy(policy))
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, navWarnings...)

	s := &Site{
		Config:   cfg,
		Docs:     docs,
		Tree:     tree,
		Markdown: md,
		BuildID:  uuid.NewString(),
		BuiltAt:  time.Now(),
	}
	s.routes, s.redirects = s.plan(docsOpts.PathPrefix)
	return s, warnings, nil
}

// WithScripts returns a copy of s that links the given bundles.
func (s *Site) WithScripts(bundles map[string]string) *Site {
	names := make([]string, 0, len(bundles))
	for name := range bundles {
		names = append(names, name)
	}
	sort.Strings(names)

	cp := *s
	cp.Scripts = make([]string, len(names))
	for i, name := range names {
		cp.Scripts[i] = bundles[name]
	}
	return &cp
}

// Routes returns the URL of every published page, sorted.
func (s *Site) Routes() []string {
	return append([]string(nil), s.routes...)
}

// Redirects maps directory URLs without a page of their own to the page
// they should open.
func (s *Site) Redirects() map[string]string {
	out := make(map[string]string, len(s.redirects))
	for k, v := range s.redirects {
		out[k] = v
	}
	return out
}

// Page returns the document at url if it belongs to a configured version.
func (s *Site) Page(url string) (content.Document, bool) {
	doc, ok := s.Docs.ByURL(url)
	if !ok {
		return content.Document{}, false
	}
	if _, ok := s.Tree.Version(doc.Page.Version); !ok {
		return content.Document{}, false
	}
	return doc, true
}

// VersionForPath picks the version whose URL prefixes p, or the latest.
func (s *Site) VersionForPath(p string) (nav.VersionNode, bool) {
	for _, v := range s.Tree.Versions() {
		if v.Version.URL != "" && strings.HasPrefix(p, v.Version.URL) {
			return v, true
		}
	}
	return s.Tree.Latest()
}

// Pages in every configured version are published, including ones the
// sidebar omits, so links to them keep working.
func (s *Site) plan(prefix string) ([]string, map[string]string) {
	var routes []string
	for _, doc := range s.Docs.Documents() {
		if _, ok := s.Tree.Version(doc.Page.Version); ok {
			routes = append(routes, doc.Page.URL)
		}
	}
	sort.Strings(routes)

	published := make(map[string]bool, len(routes))
	for _, r := range routes {
		published[r] = true
	}

	redirects := make(map[string]string)
	add := func(from, to string) {
		if from == "" || to == "" || published[from] || from == to {
			return
		}
		if _, taken := redirects[from]; !taken {
			redirects[from] = to
		}
	}

	for _, v := range s.Tree.Versions() {
		pages := v.Pages()
		if len(pages) == 0 {
			continue
		}
		add(v.Version.URL, pages[0].URL)
	}
	if latest, ok := s.Tree.Latest(); ok {
		target := latest.Version.URL
		if to, ok := redirects[target]; ok {
			target = to
		}
		if published[target] {
			add("/", target)
			if root := path.Join("/", strings.Trim(prefix, "/")); root != "/" {
				add(root+"/", target)
			}
		}
	}
	return routes, redirects
}
