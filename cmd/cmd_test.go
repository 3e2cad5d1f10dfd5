package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/talos-systems/sidero-docs/nav"
)

var testConfig = filepath.Join("..", "site", "testdata", "site.yaml")

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func TestNormalizeLogLevel(t *testing.T) {
	for raw, want := range map[string]LogLevel{
		"debug":   LogLevelDebug,
		" WARN ":  LogLevelWarn,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	} {
		assert.Equal(t, want, NormalizeLogLevel(raw), raw)
	}
}

func TestNormalizeLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("text"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("logfmt"))
}

func TestJSONLoggerCarriesWarningFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, LogLevelInfo, LogFormatJSON)

	logger.Warn("navigation warning", warningAttrs(&nav.ContentMismatchError{
		Page:   nav.Page{Version: "v9.9", Path: "v9.9/guides/future.md"},
		Reason: `version "v9.9" is not configured`,
	})...)
	logger.Debug("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "v9.9/guides/future.md", entry[KeyPage])
	assert.Equal(t, "v9.9", entry[KeyVersion])
	assert.Equal(t, `version "v9.9" is not configured`, entry[KeyError])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestWarningAttrsConfigurationError(t *testing.T) {
	attrs := warningAttrs(&nav.ConfigurationError{Version: "v0.4", Category: "Guides", Reason: "no pages"})
	got := map[string]string{}
	for _, a := range attrs {
		attr := a.(slog.Attr)
		got[attr.Key] = attr.Value.String()
	}
	assert.Equal(t, map[string]string{
		KeyVersion:  "v0.4",
		KeyCategory: "Guides",
		KeyError:    "no pages",
	}, got)
}

func TestBuildSite(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, buildSite(testConfig, out, true))

	page, err := os.ReadFile(filepath.Join(out, "docs", "v0.4", "guides", "upgrades", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Upgrading | Sidero</title>")
	assert.Contains(t, string(page), "<h3>Resource Configuration</h3>")

	_, err = os.Stat(filepath.Join(out, "docs", "v0.4", "changelog", "index.html"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "docs", "v9.9"))
	assert.True(t, os.IsNotExist(err))

	root, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(root), `content="0; url=/docs/v0.4/overview/introduction/"`)

	notFound, err := os.ReadFile(filepath.Join(out, "404.html"))
	require.NoError(t, err)
	assert.Contains(t, string(notFound), "Page not found")

	css, err := os.ReadFile(filepath.Join(out, "static", "site.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), "margin: 0")
	_, err = os.Stat(filepath.Join(out, "static", "css", "site.css"))
	assert.NoError(t, err)

	sitemap, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "https://www.sidero.dev/docs/v0.4/overview/architecture/")
	assert.NotContains(t, string(sitemap), "/docs/v0.1/")
}

func TestBuildSiteMissingConfig(t *testing.T) {
	err := buildSite(filepath.Join(t.TempDir(), "site.yaml"), t.TempDir(), false)
	assert.Error(t, err)
}

func TestSidebarCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"sidebar", "v0.4", "--config", testConfig, "--format", "json", "--log-level", "error"})
	require.NoError(t, rootCmd.Execute())

	var v nav.VersionNode
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	titles := make([]string, len(v.Categories))
	for i, c := range v.Categories {
		titles[i] = c.Title
	}
	assert.Equal(t, []string{"Overview", "Getting Started", "Resource Configuration", "Guides"}, titles)
}

func TestPrintSidebarYAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printSidebar(&out, testConfig, "", "yaml"))

	var versions []nav.VersionNode
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &versions))
	require.Len(t, versions, 2)
	assert.Equal(t, "v0.4", versions[0].Version.ID)
	assert.Equal(t, "v0.1", versions[1].Version.ID)
	assert.Equal(t, "Introduction", versions[1].Categories[0].Pages[0].Title)
}

func TestPrintSidebarErrors(t *testing.T) {
	assert.Error(t, printSidebar(io.Discard, testConfig, "v9.9", "yaml"))
	assert.Error(t, printSidebar(io.Discard, testConfig, "", "toml"))
}

func TestValidateSite(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, validateSite(&out, testConfig, false))
	assert.Contains(t, out.String(), "2 versions, 11 pages, 2 warnings")
	assert.Contains(t, out.String(), "warning: content v9.9/guides/future.md")

	assert.Error(t, validateSite(io.Discard, testConfig, true))
}

func TestLiveHandlerSwap(t *testing.T) {
	live := &liveHandler{}
	live.swap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "one") }))

	rec := httptest.NewRecorder()
	live.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "one", rec.Body.String())

	live.swap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "two") }))
	rec = httptest.NewRecorder()
	live.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "two", rec.Body.String())
}

func TestDebounce(t *testing.T) {
	var calls atomic.Int32
	trigger := debounce(20*time.Millisecond, func() { calls.Add(1) })
	for i := 0; i < 5; i++ {
		trigger()
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestIgnoreEvent(t *testing.T) {
	assert.True(t, ignoreEvent("content/.page.md.swp"))
	assert.True(t, ignoreEvent("content/page.md~"))
	assert.False(t, ignoreEvent("content/page.md"))
	assert.False(t, ignoreEvent("site/.env"))
}

func TestWatchedDirs(t *testing.T) {
	s, _, err := loadSite(testConfig)
	require.NoError(t, err)
	dirs := watchedDirs(s)
	require.Len(t, dirs, 3)
	assert.Equal(t, s.Config.Dir, dirs[0])
	assert.Equal(t, filepath.Join(s.Config.Dir, "content", "docs"), dirs[1])
	assert.Equal(t, filepath.Join(s.Config.Dir, "static"), dirs[2])
}
