package utils

import (
	"encoding/xml"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GenerateSitemaps writes sitemap.xml into outDir.
func GenerateSitemaps(outDir, baseURL string, routes, exclude []string, lastMod time.Time) error {
	xmlOutput, err := GenerateSitemapContent(baseURL, routes, exclude, lastMod)
	if err != nil {
		return err
	}

	err = os.WriteFile(filepath.Join(outDir, "sitemap.xml"), []byte(xmlOutput), 0644)
	return errors.WithStack(err)
}

// GenerateSitemapContent renders the sitemap document for routes below
// baseURL. Routes matching an exclude pattern (path.Match syntax) are left
// out.
func GenerateSitemapContent(baseURL string, routes, exclude []string, lastMod time.Time) (string, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	sitemap := Sitemap{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	for _, route := range routes {
		skip, err := excluded(route, exclude)
		if err != nil {
			return "", err
		}
		if skip {
			continue
		}
		sitemap.Urls = append(sitemap.Urls, Url{
			Loc:     baseURL + route,
			LastMod: lastMod.Format("2006-01-02"),
		})
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return xml.Header + string(xmlOutput), nil
}

func excluded(route string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/*") || strings.HasSuffix(pattern, "/**") {
			if strings.HasPrefix(route, strings.TrimRight(pattern, "*")) {
				return true, nil
			}
			continue
		}
		ok, err := path.Match(pattern, route)
		if err != nil {
			return false, errors.Wrapf(err, "sitemap exclude %q", pattern)
		}
		if ok || strings.TrimSuffix(route, "/") == strings.TrimSuffix(pattern, "/") {
			return true, nil
		}
	}
	return false, nil
}
