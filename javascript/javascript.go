package javascript

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"

	"github.com/talos-systems/sidero-docs/config"
)

// CompileJSTarget bundles every target with esbuild and writes the output,
// with content hashes in the file names, below publicDir/<out_dir>. Source
// paths resolve against srcDir. The result maps target names to the public
// path of their bundle.
func CompileJSTarget(targets map[string]config.JavascriptTarget, srcDir, publicDir string, minify bool) (map[string]string, error) {
	emitted := make(map[string]string, len(targets))
	for targetName, target := range targets {
		outDir := filepath.Join(publicDir, filepath.FromSlash(target.OutDir))
		result := api.Build(api.BuildOptions{
			EntryPoints:       []string{filepath.Join(srcDir, target.Source)},
			Bundle:            true,
			MinifyWhitespace:  minify,
			MinifyIdentifiers: minify,
			MinifySyntax:      minify,
			Engines: []api.Engine{
				{Name: api.EngineChrome, Version: "100"},
				{Name: api.EngineFirefox, Version: "100"},
				{Name: api.EngineSafari, Version: "15"},
				{Name: api.EngineEdge, Version: "100"},
			},
			Sourcemap: api.SourceMapExternal,
			Write:     false,
			Outdir:    outDir,
		})

		if len(result.Errors) > 0 {
			msgs := make([]string, len(result.Errors))
			for i, m := range result.Errors {
				msgs[i] = m.Text
			}
			return nil, errors.Errorf("javascript target %s: %s", targetName, strings.Join(msgs, "; "))
		}

		// Separate files with and without .map extension
		var regularFiles []api.OutputFile
		var mapFiles []api.OutputFile

		for _, out := range result.OutputFiles {
			ext := filepath.Ext(out.Path)
			if strings.EqualFold(ext, ".map") {
				mapFiles = append(mapFiles, out)
			} else {
				regularFiles = append(regularFiles, out)
			}
		}

		// Sources first so their hashes are known when the maps are named.
		sortedFiles := append(regularFiles, mapFiles...)

		srcToHash := make(map[string]string)

		if err := os.MkdirAll(outDir, 0755); err != nil {
			return nil, errors.WithStack(err)
		}

		for _, out := range sortedFiles {
			dir := filepath.Dir(out.Path)
			base := filepath.Base(out.Path)
			ext := base[strings.Index(base, "."):]
			isMap := ext == ".js.map"
			fileNameWithoutExt := base[:len(base)-len(ext)]

			var hashForFileName string
			if isMap {
				hashForFileName = srcToHash[fileNameWithoutExt]
				if hashForFileName == "" {
					return nil, errors.Errorf("source map %s can not find hash for its source file", fileNameWithoutExt)
				}
			} else {
				safeHash := strings.ReplaceAll(out.Hash, "/", "")
				srcToHash[fileNameWithoutExt] = safeHash
				hashForFileName = safeHash
			}

			name := fmt.Sprintf("%s_%s%s", fileNameWithoutExt, hashForFileName, ext)
			newPath := filepath.Join(dir, name)

			contents := out.Contents
			if !isMap {
				contents = append(append([]byte{}, out.Contents...), fmt.Sprintf("//# sourceMappingURL=%s.map", name)...)
			}

			if err := os.WriteFile(newPath, contents, 0644); err != nil {
				return nil, errors.Wrapf(err, "writing %s", newPath)
			}

			if !isMap {
				emitted[targetName] = path.Join("/", filepath.ToSlash(target.OutDir), name)
			}
		}
	}

	return emitted, nil
}
