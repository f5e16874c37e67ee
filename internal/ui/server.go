// Package ui provides the web workbench server for Flowdeck.
package ui

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/flowdeck-labs/flowdeck/internal/catalog"
	"github.com/flowdeck-labs/flowdeck/internal/mcp"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/ui/router"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
)

// debounceDelay coalesces bursts of file events into one re-discovery.
const debounceDelay = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	workspace     *workspace.Workspace
	sessionStore  *sessions.CookieStore
	catalogClient *catalog.Client
	installer     *mcp.Installer
	port          int
	watch         bool
	logger        *slog.Logger
	notifier      *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Workspace      *workspace.Workspace
	Port           int
	Watch          bool
	SessionSecret  string
	CatalogBaseURL string
	CatalogTimeout time.Duration
	// ProjectRoot is where mcp_servers.json is written
	ProjectRoot string
	Logger      *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		workspace:     cfg.Workspace,
		sessionStore:  sessionStore,
		catalogClient: catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout),
		installer:     mcp.NewInstaller(cfg.Workspace.Store(), cfg.ProjectRoot, cfg.Logger),
		port:          cfg.Port,
		watch:         cfg.Watch,
		logger:        cfg.Logger,
		notifier:      notifier.New(),
	}
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := router.Deps{
		Workspace:     s.workspace,
		SessionStore:  s.sessionStore,
		Notifier:      s.notifier,
		Resolver:      mcp.NewResolver(s.workspace.Store(), mcp.DefaultKnownServers()),
		Installer:     s.installer,
		CatalogClient: s.catalogClient,
		IsDev:         s.IsDev(),
	}
	if err := router.SetupRoutes(r, deps); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true if running in development mode.
func (s *Server) IsDev() bool {
	return true
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles watches the flows directory and re-discovers on changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.workspace.FlowsDir()); err != nil {
		s.logger.Error("failed to watch flows directory", "error", err)
		// Continue without watching rather than failing the server.
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			ext := filepath.Ext(event.Name)
			if ext != ".yaml" && ext != ".yml" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.logger.Debug("flow file changed, re-discovering", "file", event.Name)

				if _, err := s.workspace.Discover(); err != nil {
					s.logger.Error("discover failed", "error", err)
				}

				s.notifier.Broadcast()
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
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
