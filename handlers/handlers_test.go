package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talos-systems/sidero-docs/config"
	"github.com/talos-systems/sidero-docs/nav"
	"github.com/talos-systems/sidero-docs/site"
)

func testSite(t *testing.T) *site.Site {
	t.Helper()
	cfg, err := config.Load(filepath.Join("..", "site", "testdata", "site.yaml"))
	require.NoError(t, err)
	s, _, err := site.Build(cfg)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestPageRendering(t *testing.T) {
	router, err := SetupRouter(testSite(t), "")
	require.NoError(t, err)

	res, body := get(t, router, "/docs/v0.4/overview/architecture/")
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))

	assert.Contains(t, body, "<title>Architecture | Sidero</title>")
	assert.Contains(t, body, `<link rel="canonical" href="https://www.sidero.dev/docs/v0.4/overview/architecture/">`)
	assert.Contains(t, body, "gtag('config', 'XX-999999999-9')")
	assert.Contains(t, body, "several controllers")
	assert.Contains(t, body, "v0.4 (latest)")

	// Sidebar follows the configured category order.
	overview := strings.Index(body, "<h3>Overview</h3>")
	gettingStarted := strings.Index(body, "<h3>Getting Started</h3>")
	guides := strings.Index(body, "<h3>Guides</h3>")
	assert.True(t, overview < gettingStarted && gettingStarted < guides)
	assert.Contains(t, body, `href="/docs/v0.4/overview/architecture/" class="active"`)

	// Neighbours in sidebar order.
	assert.Contains(t, body, `class="prev" href="/docs/v0.4/overview/introduction/"`)
	assert.Contains(t, body, `class="next" href="/docs/v0.4/getting-started/prereq-cli-tools/"`)
	assert.NotContains(t, body, "class=\"banner\"")
}

func TestPageExternalLinks(t *testing.T) {
	router, err := SetupRouter(testSite(t), "")
	require.NoError(t, err)

	_, body := get(t, router, "/docs/v0.4/overview/introduction/")
	assert.Contains(t, body, `target="_blank"`)
	assert.Contains(t, body, "noopener")
}

func TestOlderVersionBanner(t *testing.T) {
	router, err := SetupRouter(testSite(t), "")
	require.NoError(t, err)

	res, body := get(t, router, "/docs/v0.1/guides/first-cluster/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "the latest release is v0.4")
	assert.Contains(t, body, "<h3>Guides</h3>")
	assert.NotContains(t, body, "<h3>Getting Started</h3>")
}

func TestRedirects(t *testing.T) {
	router, err := SetupRouter(testSite(t), "")
	require.NoError(t, err)

	for _, from := range []string{"/", "/docs/", "/docs/v0.4/"} {
		res, _ := get(t, router, from)
		assert.Equal(t, http.StatusFound, res.StatusCode, from)
		assert.Equal(t, "/docs/v0.4/overview/introduction/", res.Header.Get("Location"), from)
	}
}

func TestNotFound(t *testing.T) {
	router, err := SetupRouter(testSite(t), "")
	require.NoError(t, err)

	res, body := get(t, router, "/docs/v0.1/missing/")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "Page not found")
	assert.Contains(t, body, `<a href="/docs/v0.1/overview/introduction/">Back to the docs</a>`)

	res, _ = get(t, router, "/docs/v9.9/guides/future/")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUnlistedPageIsPublished(t *testing.T) {
	router, err := SetupRouter(testSite(t), "")
	require.NoError(t, err)

	res, body := get(t, router, "/docs/v0.4/changelog/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, body, `href="/docs/v0.4/changelog/"`)
}

func TestStaticAndSitemap(t *testing.T) {
	router, err := SetupRouter(testSite(t), "")
	require.NoError(t, err)

	res, body := get(t, router, "/static/site.css")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "margin: 0")

	res, body = get(t, router, "/static/css/site.css")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, ".sidebar")

	res, body = get(t, router, "/sitemap.xml")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<loc>https://www.sidero.dev/docs/v0.4/guides/upgrades/</loc>")
	assert.NotContains(t, body, "v0.1")
}

func TestThemeOverride(t *testing.T) {
	s := testSite(t)
	theme := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(theme, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(theme, "templates", "page.plush.html"), []byte(`<div class="custom"><%= title %></div>`), 0o644))

	cfg := *s.Config
	cfg.Theme = theme
	s.Config = &cfg

	router, err := SetupRouter(s, "")
	require.NoError(t, err)
	_, body := get(t, router, "/docs/v0.4/guides/upgrades/")
	assert.Contains(t, body, `<div class="custom">Upgrading</div>`)
	assert.Contains(t, body, "<h3>Guides</h3>")
}

func TestAPI(t *testing.T) {
	s := testSite(t)
	router, err := SetupRouter(s, "")
	require.NoError(t, err)

	res, body := get(t, router, "/api/sidebar/v0.4")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var v nav.VersionNode
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Equal(t, "v0.4", v.Version.ID)
	require.Len(t, v.Categories, 4)
	assert.Equal(t, "Prerequisite: CLI tools", v.Categories[1].Pages[0].Title)

	res, _ = get(t, router, "/api/sidebar/v9.9")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = get(t, router, "/api/versions")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var info struct {
		BuildID  string           `json:"build_id"`
		Versions []nav.DocVersion `json:"versions"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &info))
	assert.Equal(t, s.BuildID, info.BuildID)
	require.Len(t, info.Versions, 2)
	assert.True(t, info.Versions[0].Latest)

	res, body = get(t, router, "/api/sidebar")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"v0.1"`)

	res, _ = get(t, router, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
