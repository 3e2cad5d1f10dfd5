package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSitemapContent(t *testing.T) {
	day := time.Date(2021, 9, 1, 12, 0, 0, 0, time.UTC)
	routes := []string{"/docs/v0.4/overview/", "/docs/v0.4/guides/first-cluster/", "/docs/v0.5/overview/", "/docs/v0.4/internal/"}

	out, err := GenerateSitemapContent("https://talos.dev/", routes, []string{"/docs/v0.5/*", "/docs/v0.4/internal"}, day)
	require.NoError(t, err)

	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	assert.Contains(t, out, "<loc>https://talos.dev/docs/v0.4/overview/</loc>")
	assert.Contains(t, out, "<loc>https://talos.dev/docs/v0.4/guides/first-cluster/</loc>")
	assert.Contains(t, out, "<lastmod>2021-09-01</lastmod>")
	assert.NotContains(t, out, "v0.5")
	assert.NotContains(t, out, "internal")
}

func TestGenerateSitemapContentBadPattern(t *testing.T) {
	_, err := GenerateSitemapContent("https://talos.dev", []string{"/a/"}, []string{"["}, time.Now())
	assert.Error(t, err)
}

func TestGenerateSitemaps(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, GenerateSitemaps(dir, "https://talos.dev", []string{"/docs/"}, nil, time.Now()))

	b, err := os.ReadFile(filepath.Join(dir, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "<loc>https://talos.dev/docs/</loc>")
}
