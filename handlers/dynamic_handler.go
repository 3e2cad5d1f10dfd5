package handlers

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gobuffalo/plush"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/talos-systems/sidero-docs/config"
	"github.com/talos-systems/sidero-docs/nav"
	"github.com/talos-systems/sidero-docs/site"
	"github.com/talos-systems/sidero-docs/utils"
)

type layouts struct {
	base     *plush.Template
	page     *plush.Template
	notFound *plush.Template
}

func loadLayouts(themes fs.FS) (*layouts, error) {
	parse := func(name string) (*plush.Template, error) {
		src, err := readTemplate(themes, name)
		if err != nil {
			return nil, err
		}
		t, err := plush.Parse(src)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", name)
		}
		return t, nil
	}

	var (
		l   layouts
		err error
	)
	if l.base, err = parse("layouts/base.plush.html"); err != nil {
		return nil, err
	}
	if l.page, err = parse("page.plush.html"); err != nil {
		return nil, err
	}
	if l.notFound, err = parse("404.plush.html"); err != nil {
		return nil, err
	}
	return &l, nil
}

// SetupRouter wires every published page, redirect, static asset and API
// endpoint of s. assetsDir is where bundled javascript was written; it may
// be empty when nothing was bundled.
func SetupRouter(s *site.Site, assetsDir string) (*mux.Router, error) {
	l, err := loadLayouts(layeredFS(ThemeLayers(s)))
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter().StrictSlash(true)
	router.NotFoundHandler = Custom404Handler(s, l)

	if tw, ok := s.Config.Tailwind(); ok && tw.Stylesheet != "" {
		stylesheet := s.Config.Path(tw.Stylesheet)
		router.HandleFunc("/static/css/site.css", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, stylesheet)
		}).Methods("GET")
	}
	static := http.FileServer(http.FS(layeredFS(StaticLayers(s))))
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", static))

	if js, ok := s.Config.Javascript(); ok && assetsDir != "" {
		assets := http.FileServer(http.Dir(assetsDir))
		for _, target := range js.Targets {
			prefix := "/" + strings.Trim(target.OutDir, "/") + "/"
			router.PathPrefix(prefix).Handler(assets)
		}
	}

	router.PathPrefix("/api/").Handler(APIRouter(s))

	if sm, ok := s.Config.Sitemap(); ok {
		sitemap, err := utils.GenerateSitemapContent(s.Config.SiteURL, s.Routes(), sm.Exclude, s.BuiltAt)
		if err != nil {
			return nil, err
		}
		router.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(sitemap))
		}).Methods("GET")
	}

	for _, route := range s.Routes() {
		router.HandleFunc(route, DynamicHandler(s, l, route)).Methods("GET")
	}
	for from, to := range s.Redirects() {
		router.Handle(from, http.RedirectHandler(to, http.StatusFound)).Methods("GET")
	}

	return router, nil
}

type versionOption struct {
	Label   string
	URL     string
	Current bool
}

// newContext fills everything the base layout reads. Handlers override the
// page specific keys.
func newContext(s *site.Site, currentPath string, version nav.VersionNode) *plush.Context {
	cfg := s.Config
	ctx := plush.NewContext()

	ctx.Set("siteName", cfg.SiteName)
	ctx.Set("siteTitle", cfg.Settings.Title)
	ctx.Set("title", cfg.Settings.Title)
	ctx.Set("description", cfg.Settings.Description)
	ctx.Set("canonical", strings.TrimSuffix(cfg.SiteURL, "/")+currentPath)
	ctx.Set("currentPath", currentPath)
	ctx.Set("favicon", cfg.Icon.Favicon)
	ctx.Set("touchicon", cfg.Icon.Touchicon)
	ctx.Set("github", cfg.Settings.GitHub)
	ctx.Set("twitter", cfg.Settings.Twitter)
	ctx.Set("web", cfg.Settings.Web)
	ctx.Set("scripts", s.Scripts)
	ctx.Set("homePath", "/")

	analyticsID := ""
	if ga, ok := cfg.GoogleAnalytics(); ok {
		analyticsID = ga.ID
	}
	ctx.Set("analyticsID", analyticsID)

	links := make([]config.Link, 0, len(cfg.Settings.Nav.Links))
	for _, link := range cfg.Settings.Nav.Links {
		if link.Path == "" {
			link.Path = "/"
		}
		links = append(links, link)
	}
	ctx.Set("navLinks", links)

	var versions []versionOption
	for _, v := range cfg.Versions() {
		label := v.ID
		switch {
		case v.Latest:
			label += " (latest)"
		case v.Prerelease:
			label += " (pre-release)"
		}
		versions = append(versions, versionOption{Label: label, URL: v.URL, Current: v.ID == version.Version.ID})
	}
	ctx.Set("versions", versions)
	ctx.Set("sidebar", version.Categories)

	// plush treats nil values as unknown identifiers.
	ctx.Set("hasPrev", false)
	ctx.Set("prevPage", nav.Page{})
	ctx.Set("hasNext", false)
	ctx.Set("nextPage", nav.Page{})
	ctx.Set("versionBanner", "")
	ctx.Set("content", template.HTML(""))
	ctx.Set("yield", template.HTML(""))

	return ctx
}

// renderLayout executes inner, places it into the base layout and writes
// the page.
func renderLayout(w http.ResponseWriter, l *layouts, inner *plush.Template, ctx *plush.Context, status int) {
	innerHTML, err := inner.Exec(ctx)
	if err != nil {
		slog.Error("rendering template", "error", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
		return
	}
	ctx.Set("yield", template.HTML(innerHTML))

	pageHTML, err := l.base.Exec(ctx)
	if err != nil {
		slog.Error("executing base layout", "error", err)
		http.Error(w, "Error executing base layout", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(pageHTML)); err != nil {
		slog.Debug("writing response", "error", err)
	}
}
