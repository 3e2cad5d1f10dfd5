package nav

import "encoding/json"

// CategoryNode is a resolved category with its pages in display order.
type CategoryNode struct {
	Title  string `json:"title" yaml:"title"`
	Method Method `json:"method" yaml:"method"`
	Pages  []Page `json:"pages" yaml:"pages"`
}

// VersionNode is the resolved sidebar of one version.
type VersionNode struct {
	Version    DocVersion     `json:"version" yaml:"version"`
	Categories []CategoryNode `json:"categories" yaml:"categories"`
}

// Pages returns the pages of the version in sidebar order.
func (v VersionNode) Pages() []Page {
	var out []Page
	for _, c := range v.Categories {
		out = append(out, c.Pages...)
	}
	return out
}

// SidebarTree is the resolved navigation of a whole build. It is never
// modified after Resolve returns; accessors hand out copies.
type SidebarTree struct {
	versions []VersionNode
	index    map[string]int
}

func newTree(versions []VersionNode) *SidebarTree {
	t := &SidebarTree{versions: versions, index: make(map[string]int, len(versions))}
	for i, v := range versions {
		t.index[v.Version.ID] = i
	}
	return t
}

// Versions returns every version node in configured order.
func (t *SidebarTree) Versions() []VersionNode {
	out := make([]VersionNode, len(t.versions))
	for i, v := range t.versions {
		out[i] = v.clone()
	}
	return out
}

// Version looks up a single version node.
func (t *SidebarTree) Version(id string) (VersionNode, bool) {
	i, ok := t.index[id]
	if !ok {
		return VersionNode{}, false
	}
	return t.versions[i].clone(), true
}

// Latest returns the version flagged latest, falling back to the first
// configured version.
func (t *SidebarTree) Latest() (VersionNode, bool) {
	for _, v := range t.versions {
		if v.Version.Latest {
			return v.clone(), true
		}
	}
	if len(t.versions) == 0 {
		return VersionNode{}, false
	}
	return t.versions[0].clone(), true
}

// Neighbours returns the pages before and after url in the sidebar of
// version. Either may be nil.
func (t *SidebarTree) Neighbours(version, url string) (prev, next *Page) {
	v, ok := t.Version(version)
	if !ok {
		return nil, nil
	}
	pages := v.Pages()
	for i := range pages {
		if pages[i].URL != url {
			continue
		}
		if i > 0 {
			prev = &pages[i-1]
		}
		if i+1 < len(pages) {
			next = &pages[i+1]
		}
		return prev, next
	}
	return nil, nil
}

func (t *SidebarTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.versions)
}

func (t *SidebarTree) MarshalYAML() (interface{}, error) {
	return t.versions, nil
}

func (v VersionNode) clone() VersionNode {
	cats := make([]CategoryNode, len(v.Categories))
	for i, c := range v.Categories {
		c.Pages = clonePages(c.Pages)
		cats[i] = c
	}
	v.Categories = cats
	return v
}
