package config

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Plugin kinds understood by the site builder.
const (
	KindSourceDocs      = "gridsome-source-docs"
	KindTailwind        = "gridsome-plugin-tailwindcss"
	KindGoogleAnalytics = "@gridsome/plugin-google-analytics"
	KindSitemap         = "@gridsome/plugin-sitemap"
	KindJavascript      = "esbuild-javascript"
)

// Plugin is one entry of the plugin list. Options holds a pointer to the
// options struct of the kind named by Use.
type Plugin struct {
	Use     string
	Options interface{}
}

type Remark struct {
	ExternalLinksTarget string   `yaml:"externalLinksTarget"`
	ExternalLinksRel    []string `yaml:"externalLinksRel"`
	// Engine picks the markdown renderer: "gomarkdown" (default) or "goldmark".
	Engine  string   `yaml:"engine"`
	Plugins []string `yaml:"plugins"`
}

type SourceDocsOptions struct {
	BaseDir      string       `yaml:"baseDir"`
	Path         string       `yaml:"path"`
	TypeName     string       `yaml:"typeName"`
	PathPrefix   string       `yaml:"pathPrefix"`
	SidebarOrder SidebarOrder `yaml:"sidebarOrder"`
	Remark       Remark       `yaml:"remark"`
}

type TailwindOptions struct {
	TailwindConfig string `yaml:"tailwindConfig"`
	// Stylesheet is a prebuilt stylesheet copied into the site.
	Stylesheet string `yaml:"stylesheet"`
}

type GoogleAnalyticsOptions struct {
	ID string `yaml:"id"`
}

type SitemapOptions struct {
	Exclude []string `yaml:"exclude"`
}

type JavascriptTarget struct {
	Source string `yaml:"source"`
	OutDir string `yaml:"out_dir"`
}

type JavascriptOptions struct {
	Targets map[string]JavascriptTarget `yaml:"targets"`
}

// UnmarshalYAML decodes options into the schema of the declared kind.
// Unknown kinds and unknown option keys (under strict decoding) fail.
func (p *Plugin) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var head struct {
		Use     string      `yaml:"use"`
		Options interface{} `yaml:"options"`
	}
	if err := unmarshal(&head); err != nil {
		return err
	}

	var (
		opts interface{}
		err  error
	)
	switch head.Use {
	case KindSourceDocs:
		opts, err = decodeOptions[SourceDocsOptions](unmarshal)
	case KindTailwind:
		opts, err = decodeOptions[TailwindOptions](unmarshal)
	case KindGoogleAnalytics:
		opts, err = decodeOptions[GoogleAnalyticsOptions](unmarshal)
	case KindSitemap:
		opts, err = decodeOptions[SitemapOptions](unmarshal)
	case KindJavascript:
		opts, err = decodeOptions[JavascriptOptions](unmarshal)
	case "":
		return errors.New("plugin entry without use")
	default:
		return fmt.Errorf("unknown plugin %q", head.Use)
	}
	if err != nil {
		return errors.Wrapf(err, "plugin %s", head.Use)
	}

	p.Use = head.Use
	p.Options = opts
	return nil
}

func (p Plugin) MarshalYAML() (interface{}, error) {
	return yaml.MapSlice{
		{Key: "use", Value: p.Use},
		{Key: "options", Value: p.Options},
	}, nil
}

func decodeOptions[T any](unmarshal func(interface{}) error) (*T, error) {
	var body struct {
		Use     string `yaml:"use"`
		Options T      `yaml:"options"`
	}
	if err := unmarshal(&body); err != nil {
		return nil, err
	}
	return &body.Options, nil
}

// plugin returns the options of the first plugin of kind T.
func plugin[T any](s *Site) (*T, bool) {
	for _, p := range s.Plugins {
		if opts, ok := p.Options.(*T); ok {
			return opts, true
		}
	}
	return nil, false
}

func (s *Site) SourceDocs() (*SourceDocsOptions, bool) {
	return plugin[SourceDocsOptions](s)
}

func (s *Site) Tailwind() (*TailwindOptions, bool) {
	return plugin[TailwindOptions](s)
}

func (s *Site) GoogleAnalytics() (*GoogleAnalyticsOptions, bool) {
	return plugin[GoogleAnalyticsOptions](s)
}

func (s *Site) Sitemap() (*SitemapOptions, bool) {
	return plugin[SitemapOptions](s)
}

func (s *Site) Javascript() (*JavascriptOptions, bool) {
	return plugin[JavascriptOptions](s)
}
