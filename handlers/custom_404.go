package handlers

import (
	"net/http"

	"github.com/talos-systems/sidero-docs/site"
)

func Custom404Handler(s *site.Site, l *layouts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version, _ := s.VersionForPath(r.URL.Path)
		ctx := newContext(s, r.URL.Path, version)
		ctx.Set("title", "Page not found")
		if pages := version.Pages(); len(pages) > 0 {
			ctx.Set("homePath", pages[0].URL)
		}

		renderLayout(w, l, l.notFound, ctx, http.StatusNotFound)
	}
}
