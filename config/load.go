package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Environment variables that override file settings.
const (
	EnvSiteURL     = "SITE_URL"
	EnvAnalyticsID = "GA_ID"
	EnvWeb         = "URL_WEB"
	EnvAccessToken = "GRIDSOME_ACCESS_TOKEN"
)

const (
	defaultPathPrefix = "/docs"
	defaultPattern    = "**/*.md"
	defaultBaseDir    = "./content/docs"
	defaultTypeName   = "MarkdownPage"
	defaultStaticDir  = "static"
)

// Load reads the site configuration at path, applies .env and environment
// overrides and validates the result. Fatal problems are returned as a
// *ValidationError; non-fatal ones are available from Site.Warnings.
func Load(filename string) (*Site, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading site config")
	}

	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// The process environment wins over .env.
	envFile := filepath.Join(dir, ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "loading %s", envFile)
	} else if err == nil {
		slog.Debug("loaded environment file", "path", envFile)
	}

	site, err := Parse(data)
	if err != nil {
		return nil, err
	}
	site.Dir = dir
	site.applyEnv(os.LookupEnv)

	if err := site.Validate(); err != nil {
		return nil, err
	}
	return site, nil
}

// Parse decodes a configuration document and fills defaults. It does not
// consult the environment and does not validate.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.UnmarshalStrict(data, &site); err != nil {
		return nil, errors.Wrap(err, "parsing site config")
	}
	site.setDefaults()
	return &site, nil
}

func (s *Site) setDefaults() {
	if s.StaticDir == "" {
		s.StaticDir = defaultStaticDir
	}
	if docs, ok := s.SourceDocs(); ok {
		if docs.BaseDir == "" {
			docs.BaseDir = defaultBaseDir
		}
		if docs.Path == "" {
			docs.Path = defaultPattern
		}
		if docs.PathPrefix == "" {
			docs.PathPrefix = defaultPathPrefix
		}
		if docs.TypeName == "" {
			docs.TypeName = defaultTypeName
		}
	}
}

func (s *Site) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSiteURL); ok && v != "" {
		s.SiteURL = v
	}
	if v, ok := lookup(EnvWeb); ok && v != "" {
		s.Settings.Web = v
	}
	if v, ok := lookup(EnvAnalyticsID); ok && v != "" {
		if ga, found := s.GoogleAnalytics(); found {
			ga.ID = v
		}
	}
	if v, ok := lookup(EnvAccessToken); ok {
		s.AccessToken = v
	}
}

// Path resolves a configuration-relative path.
func (s *Site) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}
