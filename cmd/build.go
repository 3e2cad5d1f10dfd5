package cmd

import (
	"fmt"
	"html"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/talos-systems/sidero-docs/handlers"
	"github.com/talos-systems/sidero-docs/javascript"
	"github.com/talos-systems/sidero-docs/site"
	"github.com/talos-systems/sidero-docs/utils"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a static version of the site",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		minify, _ := cmd.Flags().GetBool("minify")
		return buildSite(configPath, out, minify)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("out", "o", "public", "Output directory")
	buildCmd.Flags().Bool("minify", true, "Minify bundled javascript")
}

func buildSite(configPath, out string, minify bool) error {
	s, _, err := loadSite(configPath)
	if err != nil {
		return err
	}
	log := slog.With(slog.String(KeyBuildID, s.BuildID))

	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	if js, ok := s.Config.Javascript(); ok && len(js.Targets) > 0 {
		scripts, err := javascript.CompileJSTarget(js.Targets, s.Config.Dir, out, minify)
		if err != nil {
			return err
		}
		s = s.WithScripts(scripts)
	}

	router, err := handlers.SetupRouter(s, out)
	if err != nil {
		return errors.Wrap(err, "setting up router")
	}

	if err := copyStatic(s, filepath.Join(out, "static")); err != nil {
		return errors.Wrap(err, "copying static files")
	}

	server := httptest.NewServer(router)
	defer server.Close()

	for _, route := range s.Routes() {
		if err := generateStaticPage(server, route, out); err != nil {
			return errors.Wrapf(err, "generating %s", route)
		}
		log.Debug("generated page", slog.String(KeyRoute, route))
	}

	for from, to := range s.Redirects() {
		if err := writeRedirect(out, from, to); err != nil {
			return errors.Wrapf(err, "writing redirect %s", from)
		}
	}

	if err := generateNotFoundPage(server, out); err != nil {
		return errors.Wrap(err, "generating 404 page")
	}

	if sm, ok := s.Config.Sitemap(); ok {
		if err := utils.GenerateSitemaps(out, s.Config.SiteURL, s.Routes(), sm.Exclude, s.BuiltAt); err != nil {
			return errors.Wrap(err, "generating sitemap")
		}
	}

	log.Info("static site generated", slog.String(KeyPath, out), slog.Int(KeyCount, len(s.Routes())))
	return nil
}

func generateStaticPage(server *httptest.Server, route, out string) error {
	body, status, err := fetch(server, route)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return errors.Errorf("unexpected status %d", status)
	}
	return writeFile(filepath.Join(out, filepath.FromSlash(strings.TrimPrefix(route, "/")), "index.html"), body)
}

func generateNotFoundPage(server *httptest.Server, out string) error {
	body, status, err := fetch(server, "/404.html")
	if err != nil {
		return err
	}
	if status != http.StatusNotFound {
		return errors.Errorf("unexpected status %d", status)
	}
	return writeFile(filepath.Join(out, "404.html"), body)
}

func fetch(server *httptest.Server, route string) ([]byte, int, error) {
	resp, err := server.Client().Get(server.URL + route)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return body, resp.StatusCode, nil
}

const redirectPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Redirecting</title>
  <link rel="canonical" href="%[1]s">
  <meta http-equiv="refresh" content="0; url=%[1]s">
</head>
<body><a href="%[1]s">%[1]s</a></body>
</html>
`

func writeRedirect(out, from, to string) error {
	target := html.EscapeString(to)
	dest := filepath.Join(out, filepath.FromSlash(strings.Trim(from, "/")), "index.html")
	return writeFile(dest, []byte(fmt.Sprintf(redirectPage, target)))
}

// copyStatic flattens the static layers into dest. Lower priority layers
// are written first so overrides win.
func copyStatic(s *site.Site, dest string) error {
	layers := handlers.StaticLayers(s)
	for i := len(layers) - 1; i >= 0; i-- {
		err := fs.WalkDir(layers[i], ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(layers[i], p)
			if err != nil {
				return err
			}
			return writeFile(filepath.Join(dest, filepath.FromSlash(p)), data)
		})
		if err != nil {
			return err
		}
	}

	if tw, ok := s.Config.Tailwind(); ok && tw.Stylesheet != "" {
		data, err := os.ReadFile(s.Config.Path(tw.Stylesheet))
		if err != nil {
			return errors.WithStack(err)
		}
		return writeFile(filepath.Join(dest, "css", "site.css"), data)
	}
	return nil
}

func writeFile(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(dest, data, 0644))
}
