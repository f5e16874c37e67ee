package sidebar

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
)

// SetupRoutes registers sidebar routes on the router.
func SetupRoutes(
	router chi.Router,
	ws *workspace.Workspace,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
) (*Handlers, error) {
	handlers := NewHandlers(ws, sessionStore, notify)

	router.Route("/api/sidebar", func(r chi.Router) {
		r.Get("/", handlers.ListSSE)
		r.Post("/collapse/{group}", handlers.ToggleCollapse)
	})

	router.Post("/api/flows", handlers.CreateFlow)
	router.Delete("/api/flows", handlers.DeleteFlow)

	return handlers, nil
}
