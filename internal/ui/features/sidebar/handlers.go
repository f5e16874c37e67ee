// Package sidebar provides the flow navigator feature for the UI.
package sidebar

import (
	"embed"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/ui/render"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = render.Templates(templatesFS, "templates/*.tmpl")

const (
	sessionName  = "flowdeck-ui"
	collapsedKey = "collapsed_groups"
)

// Signals represents the signals sent from the frontend.
type Signals struct {
	Filter      string `json:"filter"`
	Source      string `json:"sourceFilter"`
	NewFlowName string `json:"newFlowName"`
	NewFlowDesc string `json:"newFlowDesc"`
}

// Handlers provides HTTP handlers for the sidebar feature.
type Handlers struct {
	ws           *workspace.Workspace
	sessionStore sessions.Store
	notifier     *notifier.Notifier
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ws *workspace.Workspace, sessionStore sessions.Store, notify *notifier.Notifier) *Handlers {
	return &Handlers{
		ws:           ws,
		sessionStore: sessionStore,
		notifier:     notify,
	}
}

// ListSSE patches the sidebar with the current filtered, grouped flow list.
func (h *Handlers) ListSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals Signals
	_ = datastar.ReadSignals(r, &signals)

	if err := h.patchSidebar(sse, w, r, signals); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ToggleCollapse flips a group's collapsed state in the session and
// re-renders the sidebar. Collapse only affects visibility.
func (h *Handlers) ToggleCollapse(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	_ = datastar.ReadSignals(r, &signals)

	// The session cookie must be set before the SSE generator is created:
	// it flushes the response headers at construction.
	group := chi.URLParam(r, "group")
	session, _ := h.sessionStore.Get(r, sessionName)
	collapsed := collapsedGroups(session)
	if collapsed[group] {
		delete(collapsed, group)
	} else {
		collapsed[group] = true
	}
	setCollapsedGroups(session, collapsed)
	saveErr := session.Save(r, w)

	sse := datastar.NewSSE(w, r)
	if saveErr != nil {
		_ = sse.ConsoleError(saveErr)
		return
	}

	if err := h.patchSidebar(sse, w, r, signals); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// CreateFlow authors a new local flow and notifies all views.
func (h *Handlers) CreateFlow(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	name := strings.TrimSpace(signals.NewFlowName)
	pf, err := h.ws.CreateFlow(name, strings.TrimSpace(signals.NewFlowDesc))
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	h.notifier.Broadcast()
	_ = sse.Redirect("/flows/" + pf.Name)
}

// DeleteFlow removes a flow file and record, then notifies all views.
func (h *Handlers) DeleteFlow(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	name := r.URL.Query().Get("name")
	if err := h.ws.DeleteFlow(name); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	h.notifier.Broadcast()

	// Deleting the selected flow leaves a dangling detail view.
	if r.URL.Query().Get("selected") == name {
		_ = sse.Redirect("/")
		return
	}
	if err := h.patchSidebar(sse, w, r, Signals{}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) patchSidebar(sse *datastar.ServerSentEventGenerator, _ http.ResponseWriter, r *http.Request, signals Signals) error {
	view, err := h.BuildView(r, signals.Filter, signals.Source, r.URL.Query().Get("selected"))
	if err != nil {
		return err
	}

	html, err := render.Fragment(templates, "sidebar", view)
	if err != nil {
		return err
	}
	return sse.PatchElements(html)
}

// BuildView assembles the sidebar view data. Shared with the home feature,
// which renders the sidebar into the initial page.
func (h *Handlers) BuildView(r *http.Request, filter, source, selected string) (View, error) {
	flows, err := h.ws.Store().ListFlows()
	if err != nil {
		return View{}, err
	}

	session, _ := h.sessionStore.Get(r, sessionName)
	collapsed := collapsedGroups(session)

	return View{
		Filter:   filter,
		Source:   source,
		Selected: selected,
		Groups:   BuildGroups(flows, filter, source, selected, collapsed),
	}, nil
}

// Render returns the sidebar fragment HTML for a view. Used by the home
// feature to server-render the initial page.
func (h *Handlers) Render(view View) (string, error) {
	return render.Fragment(templates, "sidebar", view)
}

// collapsedGroups reads the collapsed set from the session. The value is
// stored as a JSON array so group names may contain any character.
func collapsedGroups(session *sessions.Session) map[string]bool {
	collapsed := make(map[string]bool)
	raw, _ := session.Values[collapsedKey].(string)
	if raw == "" {
		return collapsed
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return collapsed
	}
	for _, name := range names {
		if name != "" {
			collapsed[name] = true
		}
	}
	return collapsed
}

func setCollapsedGroups(session *sessions.Session, collapsed map[string]bool) {
	names := make([]string, 0, len(collapsed))
	for name := range collapsed {
		names = append(names, name)
	}
	sort.Strings(names)
	encoded, _ := json.Marshal(names)
	session.Values[collapsedKey] = string(encoded)
}
