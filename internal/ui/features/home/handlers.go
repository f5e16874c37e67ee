// Package home renders the workbench page shell and its live updates.
package home

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/flowdeck-labs/flowdeck/internal/ui/features/dependencies"
	"github.com/flowdeck-labs/flowdeck/internal/ui/features/sidebar"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/ui/render"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = render.Templates(templatesFS, "templates/*.tmpl")

// FlowView is the selected flow's detail data.
type FlowView struct {
	Name        string
	ShortName   string
	Description string
	Source      string
	Collection  string
	Provider    string
	Model       string
	Version     string
	FilePath    string
}

// PageData is the full page shell data. Fragments owned by other features
// are pre-rendered and embedded.
type PageData struct {
	Title            string
	Selected         string
	SidebarHTML      template.HTML
	Flow             *FlowView
	DependenciesHTML template.HTML
}

// Handlers provides HTTP handlers for the page shell.
type Handlers struct {
	store    core.Store
	sidebar  *sidebar.Handlers
	deps     *dependencies.Handlers
	notifier *notifier.Notifier
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, sb *sidebar.Handlers, deps *dependencies.Handlers, notify *notifier.Notifier) *Handlers {
	return &Handlers{
		store:    store,
		sidebar:  sb,
		deps:     deps,
		notifier: notify,
	}
}

// HomePage renders the page shell with no flow selected.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "")
}

// FlowPage renders the page shell with the flow from the URL selected.
func (h *Handlers) FlowPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, chi.URLParam(r, "*"))
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, selected string) {
	data, err := h.buildPageData(r, selected)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates is the long-lived SSE endpoint for the page. It does not send
// initial state; the page arrives fully rendered. On each workspace change
// it re-patches the sidebar, the flow panel, and the dependencies panel.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	selected := r.URL.Query().Get("flow")

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendPageView(sse, r, selected); err != nil {
				_ = sse.ConsoleError(err)
				// Keep trying on the next update.
			}
		}
	}
}

func (h *Handlers) sendPageView(sse *datastar.ServerSentEventGenerator, r *http.Request, selected string) error {
	data, err := h.buildPageData(r, selected)
	if err != nil {
		return err
	}
	if err := sse.PatchElements(string(data.SidebarHTML)); err != nil {
		return err
	}

	panelHTML, err := render.Fragment(templates, "flow-panel", data)
	if err != nil {
		return err
	}
	return sse.PatchElements(panelHTML)
}

func (h *Handlers) buildPageData(r *http.Request, selected string) (PageData, error) {
	data := PageData{Title: "Flowdeck"}

	// Resolve the flow before anything renders: a vanished flow degrades
	// to the empty state rather than a 404, matching what live updates do
	// after a delete, and its name must not leak into sidebar URLs.
	var f *core.PersistedFlow
	if selected != "" {
		var err error
		f, err = h.store.GetFlowByName(selected)
		if err != nil {
			return data, err
		}
		if f == nil {
			selected = ""
		}
	}
	data.Selected = selected

	sbView, err := h.sidebar.BuildView(r, "", "", selected)
	if err != nil {
		return data, err
	}
	sbHTML, err := h.sidebar.Render(sbView)
	if err != nil {
		return data, err
	}
	data.SidebarHTML = template.HTML(sbHTML)

	if f == nil {
		return data, nil
	}

	data.Title = f.ShortName() + " - Flowdeck"
	data.Flow = &FlowView{
		Name:        f.Name,
		ShortName:   f.ShortName(),
		Description: f.Description,
		Source:      string(f.Source),
		Collection:  f.CollectionName(),
		Provider:    f.Provider,
		Model:       f.Model,
		Version:     f.Version,
		FilePath:    f.FilePath,
	}

	depsView, err := h.deps.BuildView(f.Name)
	if err != nil {
		return data, err
	}
	depsHTML, err := h.deps.Render(depsView)
	if err != nil {
		return data, err
	}
	data.DependenciesHTML = template.HTML(depsHTML)

	return data, nil
}
