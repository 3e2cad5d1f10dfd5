package config

import (
	"fmt"
	"strings"

	"github.com/talos-systems/sidero-docs/nav"
)

// ValidationError collects every fatal problem found in a configuration.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "invalid site config: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

// Validate checks the invariants the rest of the build relies on.
func (s *Site) Validate() error {
	var problems []error
	fail := func(version, category, format string, args ...interface{}) {
		problems = append(problems, &nav.ConfigurationError{Version: version, Category: category, Reason: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(s.SiteURL) == "" {
		fail("", "", "siteUrl is empty and %s is not set", EnvSiteURL)
	}
	policy, err := nav.ParseUnlistedPolicy(s.UnlistedPolicy)
	if err != nil {
		fail("", "", "%v", err)
	}

	latest := 0
	seen := make(map[string]bool)
	for _, d := range s.Settings.DropdownOptions {
		if d.Version == "" {
			fail("", "", "dropdown entry without version")
			continue
		}
		if seen[d.Version] {
			fail(d.Version, "", "listed more than once in dropdownOptions")
		}
		seen[d.Version] = true
		if d.Latest {
			latest++
		}
	}
	if latest != 1 {
		fail("", "", "exactly one version must be marked latest, found %d", latest)
	}

	kinds := make(map[string]int)
	for _, p := range s.Plugins {
		kinds[p.Use]++
	}
	for kind, n := range kinds {
		if n > 1 {
			fail("", "", "plugin %s configured %d times", kind, n)
		}
	}

	docs, ok := s.SourceDocs()
	if !ok {
		fail("", "", "no %s plugin configured", KindSourceDocs)
	} else {
		if _, err := s.OrderSpec(); err != nil {
			problems = append(problems, err)
		}
		versions := make(map[string]bool)
		for _, vo := range docs.SidebarOrder {
			if versions[vo.Version] {
				fail(vo.Version, "", "listed more than once in sidebarOrder")
			}
			versions[vo.Version] = true
			cats := make(map[string]bool)
			for _, c := range vo.Categories {
				if c.Title == "" {
					fail(vo.Version, "", "category without title")
				}
				if cats[c.Title] {
					fail(vo.Version, c.Title, "listed more than once")
				}
				cats[c.Title] = true
				if policy == nav.BucketUnlisted && c.Title == nav.UnlistedCategory {
					fail(vo.Version, c.Title, "title is reserved for unlisted pages")
				}
			}
		}
		switch docs.Remark.Engine {
		case "", "gomarkdown", "goldmark":
		default:
			fail("", "", "unknown markdown engine %q", docs.Remark.Engine)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Warnings reports inconsistencies that do not stop a build.
func (s *Site) Warnings() []error {
	var warnings []error
	docs, ok := s.SourceDocs()
	if !ok {
		return nil
	}

	ordered := make(map[string]bool)
	for _, vo := range docs.SidebarOrder {
		ordered[vo.Version] = true
	}
	dropdown := make(map[string]bool)
	for _, d := range s.Settings.DropdownOptions {
		dropdown[d.Version] = true
		if !ordered[d.Version] {
			warnings = append(warnings, &nav.ConfigurationError{Version: d.Version, Reason: "in dropdownOptions but has no sidebarOrder"})
		}
	}
	for _, vo := range docs.SidebarOrder {
		if !dropdown[vo.Version] {
			warnings = append(warnings, &nav.ConfigurationError{Version: vo.Version, Reason: "in sidebarOrder but missing from dropdownOptions"})
		}
	}
	for _, d := range s.Settings.DropdownOptions {
		if d.Latest && d.Prerelease {
			warnings = append(warnings, &nav.ConfigurationError{Version: d.Version, Reason: "marked both latest and prerelease"})
		}
	}
	return warnings
}
