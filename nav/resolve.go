package nav

import (
	"cmp"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
)

type options struct {
	unlisted UnlistedPolicy
}

// Option tunes Resolve.
type Option func(*options)

// WithUnlistedPolicy selects what happens to pages filed under a category
// their version does not list.
func WithUnlistedPolicy(p UnlistedPolicy) Option {
	return func(o *options) { o.unlisted = p }
}

type pageKey struct {
	version  string
	category string
}

// Resolve builds the sidebar tree for order from pages. The returned error
// is non-nil only when order itself is unusable; problems with the content
// (unknown versions, unlisted categories, empty categories) are reported as
// warnings and never abort the build.
func Resolve(pages []Page, order OrderSpec, opts ...Option) (*SidebarTree, []error, error) {
	o := options{unlisted: OmitUnlisted}
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkOrder(order, o.unlisted); err != nil {
		return nil, nil, err
	}

	versions := make(map[string]bool, len(order))
	listed := make(map[pageKey]bool)
	for _, vo := range order {
		versions[vo.Version.ID] = true
		for _, c := range vo.Categories {
			listed[pageKey{vo.Version.ID, c.Title}] = true
		}
	}

	var warnings []error
	grouped := make(map[pageKey][]Page)
	unlisted := make(map[string][]Page)
	for _, p := range pages {
		switch {
		case !versions[p.Version]:
			warnings = append(warnings, &ContentMismatchError{Page: p, Reason: "version " + strconv.Quote(p.Version) + " is not configured"})
		case !listed[pageKey{p.Version, p.Category}]:
			warnings = append(warnings, &ContentMismatchError{Page: p, Reason: "category " + strconv.Quote(p.Category) + " is not listed for version " + strconv.Quote(p.Version)})
			if o.unlisted == BucketUnlisted {
				unlisted[p.Version] = append(unlisted[p.Version], p)
			}
		default:
			k := pageKey{p.Version, p.Category}
			grouped[k] = append(grouped[k], p)
		}
	}

	// Versions are independent; each goroutine only reads grouped and
	// unlisted and writes its own slot.
	nodes := make([]VersionNode, len(order))
	perVersion := make([][]error, len(order))
	var g errgroup.Group
	for i, vo := range order {
		g.Go(func() error {
			nodes[i], perVersion[i] = resolveVersion(vo, grouped, unlisted[vo.Version.ID])
			return nil
		})
	}
	_ = g.Wait()

	for _, w := range perVersion {
		warnings = append(warnings, w...)
	}
	return newTree(nodes), warnings, nil
}

func resolveVersion(vo VersionOrder, grouped map[pageKey][]Page, unlisted []Page) (VersionNode, []error) {
	var warnings []error
	node := VersionNode{Version: vo.Version, Categories: make([]CategoryNode, 0, len(vo.Categories)+1)}
	total := 0
	for _, c := range vo.Categories {
		pages := clonePages(grouped[pageKey{vo.Version.ID, c.Title}])
		total += len(pages)
		switch {
		case len(pages) == 0:
			warnings = append(warnings, &ConfigurationError{Version: vo.Version.ID, Category: c.Title, Reason: "no pages"})
		case c.Method == Weighted && !anyWeight(pages):
			warnings = append(warnings, &ConfigurationError{Version: vo.Version.ID, Category: c.Title, Reason: "weighted category has no page declaring a weight; input order kept"})
		}
		sortPages(pages, c.Method)
		node.Categories = append(node.Categories, CategoryNode{Title: c.Title, Method: c.Method, Pages: pages})
	}
	if len(unlisted) > 0 {
		pages := clonePages(unlisted)
		sortPages(pages, Alphabetical)
		node.Categories = append(node.Categories, CategoryNode{Title: UnlistedCategory, Method: Alphabetical, Pages: pages})
	}
	if total == 0 && len(vo.Categories) > 0 {
		warnings = append(warnings, &ConfigurationError{Version: vo.Version.ID, Reason: "no pages in any listed category"})
	}
	return node, warnings
}

func sortPages(pages []Page, m Method) {
	switch m {
	case Weighted:
		slices.SortStableFunc(pages, func(a, b Page) int {
			return cmp.Compare(a.SortWeight(), b.SortWeight())
		})
	case Alphabetical:
		// A Caser is stateful, so each call gets its own.
		fold := cases.Fold()
		keyed := make([]foldedPage, len(pages))
		for i, p := range pages {
			keyed[i] = foldedPage{key: fold.String(p.Title), page: p}
		}
		slices.SortStableFunc(keyed, func(a, b foldedPage) int {
			if c := cmp.Compare(a.key, b.key); c != 0 {
				return c
			}
			return cmp.Compare(a.page.Path, b.page.Path)
		})
		for i := range keyed {
			pages[i] = keyed[i].page
		}
	}
}

type foldedPage struct {
	key  string
	page Page
}

func anyWeight(pages []Page) bool {
	for _, p := range pages {
		if p.Weight != nil {
			return true
		}
	}
	return false
}

func checkOrder(order OrderSpec, policy UnlistedPolicy) error {
	seen := make(map[string]bool, len(order))
	for _, vo := range order {
		id := vo.Version.ID
		if id == "" {
			return &ConfigurationError{Reason: "version with empty identifier"}
		}
		if seen[id] {
			return &ConfigurationError{Version: id, Reason: "listed more than once"}
		}
		seen[id] = true

		cats := make(map[string]bool, len(vo.Categories))
		for _, c := range vo.Categories {
			if c.Title == "" {
				return &ConfigurationError{Version: id, Reason: "category with empty title"}
			}
			if cats[c.Title] {
				return &ConfigurationError{Version: id, Category: c.Title, Reason: "listed more than once"}
			}
			cats[c.Title] = true
			if policy == BucketUnlisted && c.Title == UnlistedCategory {
				return &ConfigurationError{Version: id, Category: c.Title, Reason: "title is reserved for unlisted pages"}
			}
			if c.Method != Weighted && c.Method != Alphabetical {
				return &ConfigurationError{Version: id, Category: c.Title, Reason: "unknown ordering method " + strconv.Quote(string(c.Method))}
			}
		}
	}
	return nil
}
