package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/talos-systems/sidero-docs/nav"
	"github.com/talos-systems/sidero-docs/site"
)

type apiError struct {
	Error string `json:"error"`
}

type buildInfo struct {
	BuildID  string           `json:"build_id"`
	BuiltAt  string           `json:"built_at"`
	Versions []nav.DocVersion `json:"versions"`
}

// APIRouter serves the resolved navigation as JSON under /api/.
func APIRouter(s *site.Site) *httprouter.Router {
	router := httprouter.New()

	router.GET("/api/versions", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		versions := make([]nav.DocVersion, 0)
		for _, v := range s.Tree.Versions() {
			versions = append(versions, v.Version)
		}
		writeJSON(w, http.StatusOK, buildInfo{
			BuildID:  s.BuildID,
			BuiltAt:  s.BuiltAt.UTC().Format("2006-01-02T15:04:05Z"),
			Versions: versions,
		})
	})

	router.GET("/api/sidebar", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, s.Tree)
	})

	router.GET("/api/sidebar/:version", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		v, ok := s.Tree.Version(ps.ByName("version"))
		if !ok {
			writeJSON(w, http.StatusNotFound, apiError{Error: "unknown version " + ps.ByName("version")})
			return
		}
		writeJSON(w, http.StatusOK, v)
	})

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
	})

	return router
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing json response", "error", err)
	}
}
