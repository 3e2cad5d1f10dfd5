package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/talos-systems/sidero-docs/site"
)

// DynamicHandler renders the documentation page published at url.
func DynamicHandler(s *site.Site, l *layouts, url string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := s.Page(url)
		if !ok {
			Custom404Handler(s, l)(w, r)
			return
		}

		body, err := s.Markdown.Render(doc.Body)
		if err != nil {
			slog.Error("rendering markdown", "path", doc.Page.Path, "error", err)
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}

		version, _ := s.Tree.Version(doc.Page.Version)
		ctx := newContext(s, url, version)
		ctx.Set("title", doc.Page.Title)
		if doc.Description != "" {
			ctx.Set("description", doc.Description)
		}
		ctx.Set("content", template.HTML(body))

		prev, next := s.Tree.Neighbours(doc.Page.Version, url)
		if prev != nil {
			ctx.Set("hasPrev", true)
			ctx.Set("prevPage", *prev)
		}
		if next != nil {
			ctx.Set("hasNext", true)
			ctx.Set("nextPage", *next)
		}

		switch {
		case version.Version.Prerelease:
			ctx.Set("versionBanner", "This documentation is for a pre-release version.")
		case !version.Version.Latest:
			if latest, ok := s.Tree.Latest(); ok && latest.Version.ID != version.Version.ID {
				ctx.Set("versionBanner", "This documentation is for "+version.Version.ID+"; the latest release is "+latest.Version.ID+".")
			}
		}

		renderLayout(w, l, l.page, ctx, http.StatusOK)
	}
}
