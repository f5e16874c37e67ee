// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/flowdeck-labs/flowdeck/internal/catalog"
	"github.com/flowdeck-labs/flowdeck/internal/mcp"
	dependenciesFeature "github.com/flowdeck-labs/flowdeck/internal/ui/features/dependencies"
	homeFeature "github.com/flowdeck-labs/flowdeck/internal/ui/features/home"
	modelpickerFeature "github.com/flowdeck-labs/flowdeck/internal/ui/features/modelpicker"
	sidebarFeature "github.com/flowdeck-labs/flowdeck/internal/ui/features/sidebar"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/ui/resources"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
)

// Deps bundles everything the feature routes need.
type Deps struct {
	Workspace     *workspace.Workspace
	SessionStore  *sessions.CookieStore
	Notifier      *notifier.Notifier
	Resolver      *mcp.Resolver
	Installer     *mcp.Installer
	CatalogClient *catalog.Client
	IsDev         bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	if deps.IsDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	store := deps.Workspace.Store()

	sb, err := sidebarFeature.SetupRoutes(router, deps.Workspace, deps.SessionStore, deps.Notifier)
	if err != nil {
		return err
	}

	dp, err := dependenciesFeature.SetupRoutes(router, store, deps.Resolver, deps.Installer, deps.Notifier)
	if err != nil {
		return err
	}

	if _, err := modelpickerFeature.SetupRoutes(router, deps.Workspace, deps.CatalogClient, deps.Notifier); err != nil {
		return err
	}

	if _, err := homeFeature.SetupRoutes(router, store, sb, dp, deps.Notifier); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
