package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/flowdeck-labs/flowdeck/internal/ui/features/dependencies"
	"github.com/flowdeck-labs/flowdeck/internal/ui/features/sidebar"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// SetupRoutes registers the page shell routes on the router.
func SetupRoutes(
	router chi.Router,
	store core.Store,
	sb *sidebar.Handlers,
	deps *dependencies.Handlers,
	notify *notifier.Notifier,
) (*Handlers, error) {
	handlers := NewHandlers(store, sb, deps, notify)

	router.Get("/", handlers.HomePage)
	router.Get("/flows/*", handlers.FlowPage)
	router.Get("/updates", handlers.Updates)

	return handlers, nil
}
