package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talos-systems/sidero-docs/nav"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"v0.4/getting-started/installation.md": "---\ntitle: Installation\nweight: 2\n---\n# Install\n",
		"v0.4/getting-started/Intro Page.md":   "---\nweight: 1\ndescription: Start here\n---\nHello\n",
		"v0.4/overview/index.md":               "---\ntitle: What is Sidero\ncategory: Overview\n---\n",
		"v0.4/guides/first-cluster.md":         "No front matter here.\n",
		"v0.4/guides/draft.md":                 "---\ndraft: true\n---\n",
		"v0.4/notes.txt":                       "ignored",
		"stray.md":                             "# not versioned\n",
		".hidden/v1/x.md":                      "ignored",
	})

	c, warnings, err := Load(Options{BaseDir: dir, Pattern: "**/*.md", PathPrefix: "/docs", LowerSlugs: true})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	var mismatch *nav.ContentMismatchError
	require.ErrorAs(t, warnings[0], &mismatch)
	assert.Equal(t, "stray.md", mismatch.Page.Path)

	require.Equal(t, 4, c.Len())

	doc, ok := c.ByURL("/docs/v0.4/getting-started/installation/")
	require.True(t, ok)
	assert.Equal(t, "Installation", doc.Page.Title)
	assert.Equal(t, "Getting Started", doc.Page.Category)
	assert.Equal(t, "v0.4", doc.Page.Version)
	require.NotNil(t, doc.Page.Weight)
	assert.Equal(t, 2, *doc.Page.Weight)
	assert.Equal(t, "# Install\n", string(doc.Body))

	doc, ok = c.ByURL("/docs/v0.4/getting-started/intro-page/")
	require.True(t, ok)
	assert.Equal(t, "Intro Page", doc.Page.Title)
	assert.Equal(t, "Start here", doc.Description)

	doc, ok = c.ByURL("/docs/v0.4/overview/")
	require.True(t, ok)
	assert.Equal(t, "What is Sidero", doc.Page.Title)
	assert.Equal(t, "Overview", doc.Page.Category)

	doc, ok = c.ByURL("/docs/v0.4/guides/first-cluster/")
	require.True(t, ok)
	assert.Equal(t, "First Cluster", doc.Page.Title)
	assert.Nil(t, doc.Page.Weight)
	assert.Equal(t, "No front matter here.\n", string(doc.Body))

	paths := make([]string, 0, c.Len())
	for _, p := range c.Pages() {
		paths = append(paths, p.Path)
	}
	assert.IsNonDecreasing(t, paths)
}

func TestLoadDuplicateURL(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"v1/guides/a.md":       "A",
		"v1/guides/a/index.md": "B",
	})

	c, warnings, err := Load(Options{BaseDir: dir, PathPrefix: "/docs"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "already used by")
}

func TestLoadBrokenFrontMatter(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"v1/guides/good.md":     "---\ntitle: Good\n---\nbody\n",
		"v1/guides/bad.md":      "---\ntitle: Bad\nweight: first\n---\n",
		"v1/guides/broken.md":   "---\ntitle: [unterminated\n---\n",
		"v1/guides/unclosed.md": "---\ntitle: open\n",
	})
	c, warnings, err := Load(Options{BaseDir: dir})
	require.NoError(t, err)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Good", c.Pages()[0].Title)

	require.Len(t, warnings, 3)
	paths := make([]string, len(warnings))
	for i, w := range warnings {
		var m *nav.ContentMismatchError
		require.ErrorAs(t, w, &m)
		assert.Equal(t, "v1", m.Page.Version)
		paths[i] = m.Page.Path
	}
	assert.Equal(t, []string{"v1/guides/bad.md", "v1/guides/broken.md", "v1/guides/unclosed.md"}, paths)
	assert.ErrorIs(t, warnings[2], ErrMissingClosingDelimiter)
}

func TestLoadMissingDir(t *testing.T) {
	_, _, err := Load(Options{BaseDir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestSplitFrontMatter(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		fm      string
		body    string
		had     bool
		wantErr bool
	}{
		{name: "none", in: "# Title\n", body: "# Title\n"},
		{name: "simple", in: "---\ntitle: x\n---\nbody\n", fm: "title: x", body: "body\n", had: true},
		{name: "empty", in: "---\n---\nbody", body: "body", had: true},
		{name: "crlf", in: "---\r\ntitle: x\r\n---\r\nbody", fm: "title: x", body: "body", had: true},
		{name: "eof", in: "---\ntitle: x\n---", fm: "title: x", had: true},
		{name: "unclosed", in: "---\ntitle: x\n", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fm, body, had, err := splitFrontMatter([]byte(tc.in))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.had, had)
			assert.Equal(t, tc.fm, string(fm))
			assert.Equal(t, tc.body, string(body))
		})
	}
}

func TestMatchSegments(t *testing.T) {
	cases := []struct {
		pattern, path string
		want          bool
	}{
		{"**/*.md", "a.md", true},
		{"**/*.md", "v1/guides/a.md", true},
		{"**/*.md", "v1/guides/a.txt", false},
		{"*.md", "v1/a.md", false},
		{"v1/**/*.md", "v1/a.md", true},
		{"v1/**/*.md", "v2/a.md", false},
	}
	for _, tc := range cases {
		got := matchSegments(splitSlash(tc.pattern), splitSlash(tc.path))
		assert.Equal(t, tc.want, got, "%s ~ %s", tc.pattern, tc.path)
	}
}

func splitSlash(s string) []string {
	return strings.Split(s, "/")
}
