package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/talos-systems/sidero-docs/nav"
)

type CategoryOrder struct {
	Title  string `yaml:"title"`
	Method string `yaml:"method"`
}

type VersionOrder struct {
	Version    string
	Categories []CategoryOrder
}

// SidebarOrder keeps the versions of the sidebarOrder mapping in the order
// they appear in the file.
type SidebarOrder []VersionOrder

func (o *SidebarOrder) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var ms yaml.MapSlice
	if err := unmarshal(&ms); err != nil {
		return err
	}

	out := make(SidebarOrder, 0, len(ms))
	for _, item := range ms {
		version := fmt.Sprint(item.Key)
		raw, err := yaml.Marshal(item.Value)
		if err != nil {
			return errors.WithStack(err)
		}
		var cats []CategoryOrder
		if err := yaml.UnmarshalStrict(raw, &cats); err != nil {
			return errors.Wrapf(err, "sidebarOrder %s", version)
		}
		out = append(out, VersionOrder{Version: version, Categories: cats})
	}
	*o = out
	return nil
}

func (o SidebarOrder) MarshalYAML() (interface{}, error) {
	ms := make(yaml.MapSlice, 0, len(o))
	for _, v := range o {
		ms = append(ms, yaml.MapItem{Key: v.Version, Value: v.Categories})
	}
	return ms, nil
}

// Versions returns the dropdown entries as documentation versions.
func (s *Site) Versions() []nav.DocVersion {
	out := make([]nav.DocVersion, 0, len(s.Settings.DropdownOptions))
	for _, d := range s.Settings.DropdownOptions {
		out = append(out, nav.DocVersion{ID: d.Version, URL: d.URL, Latest: d.Latest, Prerelease: d.Prerelease})
	}
	return out
}

// OrderSpec converts the docs source sidebarOrder into the resolver input.
// Version flags and URLs come from the dropdown entry of the same version.
func (s *Site) OrderSpec() (nav.OrderSpec, error) {
	docs, ok := s.SourceDocs()
	if !ok {
		return nil, errors.Errorf("no %s plugin configured", KindSourceDocs)
	}

	known := make(map[string]nav.DocVersion)
	for _, v := range s.Versions() {
		known[v.ID] = v
	}

	spec := make(nav.OrderSpec, 0, len(docs.SidebarOrder))
	for _, vo := range docs.SidebarOrder {
		dv, ok := known[vo.Version]
		if !ok {
			dv = nav.DocVersion{ID: vo.Version}
		}
		if dv.URL == "" {
			dv.URL = VersionURL(docs.PathPrefix, vo.Version)
		}

		cats := make([]nav.Category, 0, len(vo.Categories))
		for _, c := range vo.Categories {
			m, err := nav.ParseMethod(c.Method)
			if err != nil {
				return nil, &nav.ConfigurationError{Version: vo.Version, Category: c.Title, Reason: err.Error()}
			}
			cats = append(cats, nav.Category{Title: c.Title, Method: m})
		}
		spec = append(spec, nav.VersionOrder{Version: dv, Categories: cats})
	}
	return spec, nil
}

// VersionURL is the root URL of a version below prefix.
func VersionURL(prefix, version string) string {
	return path.Join("/", strings.Trim(prefix, "/"), version) + "/"
}
