package dependencies

import (
	"github.com/go-chi/chi/v5"

	"github.com/flowdeck-labs/flowdeck/internal/mcp"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// SetupRoutes registers dependency panel routes on the router.
func SetupRoutes(
	router chi.Router,
	store core.Store,
	resolver *mcp.Resolver,
	installer *mcp.Installer,
	notify *notifier.Notifier,
) (*Handlers, error) {
	handlers := NewHandlers(store, resolver, installer, notify)

	router.Route("/api/dependencies", func(r chi.Router) {
		r.Get("/", handlers.PanelSSE)
		r.Post("/install", handlers.Install)
	})

	return handlers, nil
}
