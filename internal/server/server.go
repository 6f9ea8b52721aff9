// Package server exposes the game data catalog and the mod workspace over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/Jocowski/democracy-mod-maker/internal/loader"
	"github.com/Jocowski/democracy-mod-maker/internal/state"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// reloadDebounce groups bursts of file events into one reload.
const reloadDebounce = 200 * time.Millisecond

// Server serves the catalog and workspace API.
type Server struct {
	loader   *loader.Loader
	store    *state.Store
	port     int
	watch    bool
	watchDir string
	logger   *slog.Logger
	notifier *Notifier

	mu      sync.RWMutex
	catalog *loader.Catalog
	report  *loader.Report
	version uint64
}

// Config holds configuration for the server.
type Config struct {
	Loader   *loader.Loader
	Store    *state.Store
	Port     int
	Watch    bool
	WatchDir string
	Logger   *slog.Logger
}

// New creates a server. Call Reload before serving requests.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		loader:   cfg.Loader,
		store:    cfg.Store,
		port:     cfg.Port,
		watch:    cfg.Watch,
		watchDir: cfg.WatchDir,
		logger:   logger,
		notifier: NewNotifier(),
		catalog:  &loader.Catalog{},
	}
}

// Catalog returns the current snapshot and its version.
func (s *Server) Catalog() (*loader.Catalog, *loader.Report, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.report, s.version
}

// Reload loads a fresh catalog and publishes it. On failure the previous
// catalog stays in place.
func (s *Server) Reload(ctx context.Context) error {
	cat, report, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = cat
	s.report = report
	s.version++
	version := s.version
	s.mu.Unlock()

	s.notifier.Broadcast(version)
	return nil
}

// Notifier returns the catalog change notifier.
func (s *Server) Notifier() *Notifier {
	return s.notifier
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	SetupRoutes(r, s)
	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.watchDir != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchFiles reloads the catalog when data files under watchDir change.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := s.newWatcher()
	if err != nil {
		return err
	}
	return s.runWatcher(ctx, watcher)
}

// newWatcher watches watchDir and every directory below it.
func (s *Server) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watchDirRecursive(watcher, s.watchDir); err != nil {
		s.logger.Error("failed to watch data directory", "dir", s.watchDir, "error", err)
	}
	return watcher, nil
}

// runWatcher consumes watcher events until ctx is done, then closes the
// watcher. Bursts of data events within reloadDebounce cause one reload.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) error {
	defer func() { _ = watcher.Close() }()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDataEvent(event) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("data changed, reloading", "file", event.Name)
				if err := s.Reload(ctx); err != nil {
					s.logger.Error("reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func isDataEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".csv", ".txt":
		return true
	}
	return false
}

func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
