package config

// config/yaml.go

type Icon struct {
	Favicon   string `yaml:"favicon"`
	Touchicon string `yaml:"touchicon"`
}

type Link struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
}

type Nav struct {
	Links []Link `yaml:"links"`
}

type DropdownOption struct {
	Version    string `yaml:"version"`
	URL        string `yaml:"url"`
	Latest     bool   `yaml:"latest"`
	Prerelease bool   `yaml:"prerelease"`
}

type Settings struct {
	Title           string           `yaml:"title"`
	Description     string           `yaml:"description"`
	Web             string           `yaml:"web"`
	Twitter         string           `yaml:"twitter"`
	GitHub          string           `yaml:"github"`
	Nav             Nav              `yaml:"nav"`
	DropdownOptions []DropdownOption `yaml:"dropdownOptions"`
}

type Slugify struct {
	Lower bool `yaml:"lower"`
}

type Permalinks struct {
	Slugify Slugify `yaml:"slugify"`
}

// Site is the whole site configuration. It is loaded once and treated as
// read-only afterwards.
type Site struct {
	SiteName       string     `yaml:"siteName"`
	Icon           Icon       `yaml:"icon"`
	SiteURL        string     `yaml:"siteUrl"`
	Settings       Settings   `yaml:"settings"`
	Permalinks     Permalinks `yaml:"permalinks"`
	Plugins        []Plugin   `yaml:"plugins"`
	UnlistedPolicy string     `yaml:"unlistedPolicy"`
	Theme          string     `yaml:"theme"`
	StaticDir      string     `yaml:"staticDir"`

	// Dir is the directory of the configuration file. Relative paths in the
	// configuration resolve against it.
	Dir string `yaml:"-"`
	// AccessToken authorizes the GraphQL source. It only ever comes from the
	// environment.
	AccessToken string `yaml:"-"`
}
