package modelpicker

import (
	"github.com/go-chi/chi/v5"

	"github.com/flowdeck-labs/flowdeck/internal/catalog"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
)

// SetupRoutes registers model picker routes on the router.
func SetupRoutes(
	router chi.Router,
	ws *workspace.Workspace,
	client *catalog.Client,
	notify *notifier.Notifier,
) (*Handlers, error) {
	handlers := NewHandlers(ws, client, notify)

	router.Route("/api/models", func(r chi.Router) {
		r.Get("/picker", handlers.Open)
		r.Get("/filter", handlers.Filter)
		r.Post("/select", handlers.Select)
		r.Post("/close", handlers.CloseSSE)
	})

	return handlers, nil
}
