// Package dependencies provides the MCP server dependency panel for flows.
package dependencies

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/flowdeck-labs/flowdeck/internal/mcp"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/ui/render"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = render.Templates(templatesFS, "templates/*.tmpl")

// Row is one dependency line in the panel.
type Row struct {
	ServerName string
	Installed  bool
	Tools      []string
	// Installable means the server has a known definition the panel
	// can install directly. Unknown servers need the CLI.
	Installable bool
}

// View is the data rendered into the dependencies panel fragment.
type View struct {
	FlowName string
	Rows     []Row
}

// Handlers provides HTTP handlers for the dependencies feature.
type Handlers struct {
	store     core.Store
	resolver  *mcp.Resolver
	installer *mcp.Installer
	notifier  *notifier.Notifier
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, resolver *mcp.Resolver, installer *mcp.Installer, notify *notifier.Notifier) *Handlers {
	return &Handlers{
		store:     store,
		resolver:  resolver,
		installer: installer,
		notifier:  notify,
	}
}

// PanelSSE patches the dependencies panel for the flow named in the query.
func (h *Handlers) PanelSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	flowName := r.URL.Query().Get("flow")
	if err := h.patchPanel(sse, flowName); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Install installs a known server and re-renders the panel. The installed
// flag shown afterwards comes from the resolver, never from the view.
func (h *Handlers) Install(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	flowName := r.URL.Query().Get("flow")
	serverName := r.URL.Query().Get("server")

	ks, ok := h.resolver.Known(serverName)
	if !ok {
		_ = sse.ConsoleError(fmt.Errorf("no known definition for server %q", serverName))
		return
	}

	if err := h.installer.Install(&ks.Server); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	h.notifier.Broadcast()

	if err := h.patchPanel(sse, flowName); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) patchPanel(sse *datastar.ServerSentEventGenerator, flowName string) error {
	view, err := h.BuildView(flowName)
	if err != nil {
		return err
	}

	html, err := render.Fragment(templates, "dependencies", view)
	if err != nil {
		return err
	}
	return sse.PatchElements(html)
}

// Render returns the panel fragment HTML for a view. Used by the home
// feature to server-render the initial page.
func (h *Handlers) Render(view View) (string, error) {
	return render.Fragment(templates, "dependencies", view)
}

// BuildView resolves the flow's dependencies into panel rows. Shared with
// the home feature for the initial page render.
func (h *Handlers) BuildView(flowName string) (View, error) {
	view := View{FlowName: flowName}

	f, err := h.store.GetFlowByName(flowName)
	if err != nil {
		return view, err
	}
	if f == nil {
		return view, fmt.Errorf("flow not found: %s", flowName)
	}

	deps, err := h.resolver.Resolve(f.Flow)
	if err != nil {
		return view, err
	}

	view.Rows = make([]Row, 0, len(deps))
	for _, dep := range deps {
		_, installable := h.resolver.Known(dep.ServerName)
		view.Rows = append(view.Rows, Row{
			ServerName:  dep.ServerName,
			Installed:   dep.Installed,
			Tools:       dep.Tools,
			Installable: installable,
		})
	}
	return view, nil
}
