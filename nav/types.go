// Package nav resolves documentation pages into per-version sidebars.
package nav

import (
	"fmt"
	"strings"
)

// Method selects how the pages of a category are ordered.
type Method string

const (
	Weighted     Method = "weighted"
	Alphabetical Method = "alphabetical"
)

// ParseMethod accepts the configuration spelling of an ordering method.
// Names are matched exactly.
func ParseMethod(raw string) (Method, error) {
	switch m := Method(raw); m {
	case Weighted, Alphabetical:
		return m, nil
	default:
		return "", fmt.Errorf("unknown ordering method %q", raw)
	}
}

// DocVersion is one independently navigable release of the docs.
type DocVersion struct {
	ID         string `json:"version" yaml:"version"`
	URL        string `json:"url" yaml:"url"`
	Latest     bool   `json:"latest" yaml:"latest"`
	Prerelease bool   `json:"prerelease" yaml:"prerelease"`
}

// Category is a named group of pages inside one version.
type Category struct {
	Title  string `json:"title" yaml:"title"`
	Method Method `json:"method" yaml:"method"`
}

// VersionOrder lists the categories of a version in display order.
type VersionOrder struct {
	Version    DocVersion
	Categories []Category
}

// OrderSpec is the ordered list of versions to resolve.
type OrderSpec []VersionOrder

// Page is the part of a documentation page the resolver needs. The body
// stays with the content loader; Path is the reference back to it.
type Page struct {
	Version  string `json:"-" yaml:"-"`
	Category string `json:"-" yaml:"-"`
	Title    string `json:"title" yaml:"title"`
	Path     string `json:"path" yaml:"path"`
	URL      string `json:"url" yaml:"url"`
	Weight   *int   `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// SortWeight returns the declared weight, or zero when none was declared.
func (p Page) SortWeight() int {
	if p.Weight == nil {
		return 0
	}
	return *p.Weight
}

// clone returns p with its own copy of the weight.
func (p Page) clone() Page {
	if p.Weight != nil {
		w := *p.Weight
		p.Weight = &w
	}
	return p
}

func clonePages(pages []Page) []Page {
	if pages == nil {
		return nil
	}
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = p.clone()
	}
	return out
}

// UnlistedPolicy decides what happens to pages whose category is not part
// of their version's order.
type UnlistedPolicy string

const (
	// OmitUnlisted drops such pages from the tree.
	OmitUnlisted UnlistedPolicy = "omit"
	// BucketUnlisted collects them in a trailing UnlistedCategory.
	BucketUnlisted UnlistedPolicy = "bucket"
)

// UnlistedCategory is the title of the bucket used by BucketUnlisted.
const UnlistedCategory = "Unlisted"

// ParseUnlistedPolicy maps the configuration value to a policy. The empty
// string selects OmitUnlisted.
func ParseUnlistedPolicy(raw string) (UnlistedPolicy, error) {
	switch p := UnlistedPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return OmitUnlisted, nil
	case OmitUnlisted, BucketUnlisted:
		return p, nil
	default:
		return "", fmt.Errorf("unknown unlisted policy %q", raw)
	}
}
