package cmd

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/talos-systems/sidero-docs/config"
	"github.com/talos-systems/sidero-docs/site"
)

// loadSite reads the configuration at path, loads the content and resolves
// the sidebar. Warnings are logged and returned; only problems that make a
// build impossible come back as the error.
func loadSite(path string) (*site.Site, []error, error) {
	start := time.Now()

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "loading %s", path)
	}

	s, warnings, err := site.Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(cfg.Warnings(), warnings...)

	log := slog.With(slog.String(KeyBuildID, s.BuildID))
	for _, w := range warnings {
		log.Warn("navigation warning", warningAttrs(w)...)
	}
	log.Info("site loaded",
		slog.String(KeyConfig, path),
		slog.Int(KeyCount, len(s.Routes())),
		slog.Int64(KeyDuration, time.Since(start).Milliseconds()))

	return s, warnings, nil
}
