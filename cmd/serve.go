package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/talos-systems/sidero-docs/handlers"
	"github.com/talos-systems/sidero-docs/javascript"
	"github.com/talos-systems/sidero-docs/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, configPath, ":"+port, watch)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "9010", "Port to run the server on")
	serveCmd.Flags().BoolP("watch", "w", false, "Rebuild when content, theme or configuration change")
}

// liveHandler forwards to the most recently built router. Requests already
// in flight finish on the router they started with.
type liveHandler struct {
	current atomic.Pointer[http.Handler]
}

func (h *liveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*h.current.Load()).ServeHTTP(w, r)
}

func (h *liveHandler) swap(next http.Handler) {
	h.current.Store(&next)
}

// buildHandler loads the site and returns its router along with the
// directories a rebuild should watch. The first one, holding the
// configuration, is watched without its subdirectories.
func buildHandler(configPath, assetsDir string) (http.Handler, []string, error) {
	s, _, err := loadSite(configPath)
	if err != nil {
		return nil, nil, err
	}

	if js, ok := s.Config.Javascript(); ok && len(js.Targets) > 0 {
		scripts, err := javascript.CompileJSTarget(js.Targets, s.Config.Dir, assetsDir, false)
		if err != nil {
			return nil, nil, err
		}
		s = s.WithScripts(scripts)
	}

	router, err := handlers.SetupRouter(s, assetsDir)
	if err != nil {
		return nil, nil, err
	}
	return router, watchedDirs(s), nil
}

func watchedDirs(s *site.Site) []string {
	cfg := s.Config
	dirs := []string{cfg.Dir}
	if docs, ok := cfg.SourceDocs(); ok {
		dirs = append(dirs, cfg.Path(docs.BaseDir))
	}
	if cfg.StaticDir != "" {
		dirs = append(dirs, cfg.Path(cfg.StaticDir))
	}
	if cfg.Theme != "" {
		dirs = append(dirs, cfg.Path(cfg.Theme))
	}
	return dirs
}

func serve(ctx context.Context, configPath, addr string, watch bool) error {
	assetsDir, err := os.MkdirTemp("", "sidero-docs-assets-")
	if err != nil {
		return errors.WithStack(err)
	}
	defer os.RemoveAll(assetsDir)

	router, dirs, err := buildHandler(configPath, assetsDir)
	if err != nil {
		return err
	}
	live := &liveHandler{}
	live.swap(router)

	if watch {
		watcher, err := newWatcher(dirs)
		if err != nil {
			return err
		}
		defer watcher.Close()

		go watchLoop(ctx, watcher, debounce(300*time.Millisecond, func() {
			next, _, err := buildHandler(configPath, assetsDir)
			if err != nil {
				slog.Warn("rebuild failed; keeping previous site", slog.String(KeyError, err.Error()))
				return
			}
			live.swap(next)
			slog.Info("site rebuilt")
		}))
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           live,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", slog.String("addr", addr), slog.Bool("watch", watch))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.WithStack(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("shutting down server")
	return errors.WithStack(server.Shutdown(shutdownCtx))
}

// debounce collapses bursts of calls into one run of fn after d of quiet.
// Runs never overlap.
func debounce(d time.Duration, fn func()) func() {
	var (
		mu      sync.Mutex
		timer   *time.Timer
		running sync.Mutex
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			running.Lock()
			defer running.Unlock()
			fn()
		})
	}
}

func newWatcher(dirs []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "fsnotify")
	}
	if len(dirs) == 0 {
		return watcher, nil
	}
	if err := watcher.Add(dirs[0]); err != nil {
		_ = watcher.Close()
		return nil, errors.Wrapf(err, "watching %s", dirs[0])
	}
	for _, dir := range dirs[1:] {
		addDirsRecursive(watcher, dir)
	}
	return watcher, nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ignoreEvent(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(watcher, ev.Name)
				}
			}
			slog.Debug("file changed", slog.String(KeyPath, ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", slog.String(KeyError, err.Error()))
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			slog.Warn("watch add failed", slog.String(KeyPath, p), slog.String(KeyError, err.Error()))
		}
		return nil
	})
}

// ignoreEvent skips editor swap files and hidden files other than .env.
func ignoreEvent(name string) bool {
	base := filepath.Base(name)
	return (strings.HasPrefix(base, ".") && base != ".env") || strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp")
}
