package handlers

import (
	"embed"
	"io/fs"
	"os"
	"path"

	"github.com/pkg/errors"

	"github.com/talos-systems/sidero-docs/site"
)

//go:embed theme
var defaultTheme embed.FS

// layeredFS opens a name from the first layer that has it.
type layeredFS []fs.FS

func (l layeredFS) Open(name string) (fs.File, error) {
	for _, layer := range l {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// ThemeLayers returns the theme directories, highest priority first: the
// configured theme, then the built-in default.
func ThemeLayers(s *site.Site) []fs.FS {
	builtin, _ := fs.Sub(defaultTheme, "theme")
	layers := []fs.FS{}
	if s.Config.Theme != "" {
		layers = append(layers, os.DirFS(s.Config.Path(s.Config.Theme)))
	}
	return append(layers, builtin)
}

// StaticLayers returns the static file trees, highest priority first.
func StaticLayers(s *site.Site) []fs.FS {
	layers := []fs.FS{}
	if s.Config.StaticDir != "" {
		if dir := s.Config.Path(s.Config.StaticDir); isDirectory(dir) {
			layers = append(layers, os.DirFS(dir))
		}
	}
	for _, theme := range ThemeLayers(s) {
		if sub, err := fs.Sub(theme, "static"); err == nil {
			layers = append(layers, sub)
		}
	}
	return layers
}

func readTemplate(themes fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(themes, path.Join("templates", name))
	if err != nil {
		return "", errors.Wrapf(err, "reading template %s", name)
	}
	return string(b), nil
}

func isDirectory(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
