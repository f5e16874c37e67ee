// Package modelpicker provides the provider model selection dialog.
package modelpicker

import (
	"embed"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/flowdeck-labs/flowdeck/internal/catalog"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/ui/render"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = render.Templates(templatesFS, "templates/*.tmpl")

// DefaultProvider is used when a flow has no provider configured.
const DefaultProvider = "openrouter"

// cacheTTL bounds how long a fetched catalog is reused for filtering, so
// the dialog filters without refetching on every keystroke.
const cacheTTL = 5 * time.Minute

// Signals represents the signals sent from the frontend.
type Signals struct {
	ModelFilter string `json:"modelFilter"`
}

// ModelRow is one model line in the picker.
type ModelRow struct {
	ID              string
	Name            string
	Pricing         *core.ModelPricing
	ContextLength   int
	MaxOutputTokens int
	Selected        bool
}

// View is the data rendered into the picker fragment. Loading and Error
// are mutually exclusive with Models: the dialog is always in exactly one
// of the three states.
type View struct {
	FlowName string
	Provider string
	Filter   string
	Loading  bool
	Error    string
	Models   []ModelRow
}

type cachedCatalog struct {
	models    []core.ModelInfo
	fetchedAt time.Time
}

// Handlers provides HTTP handlers for the model picker feature.
type Handlers struct {
	ws       *workspace.Workspace
	client   *catalog.Client
	notifier *notifier.Notifier

	mu    sync.Mutex
	cache map[string]cachedCatalog
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ws *workspace.Workspace, client *catalog.Client, notify *notifier.Notifier) *Handlers {
	return &Handlers{
		ws:       ws,
		client:   client,
		notifier: notify,
		cache:    make(map[string]cachedCatalog),
	}
}

// Open patches the picker into its loading state, fetches the provider
// catalog, then patches the result or the error state.
func (h *Handlers) Open(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	flowName := r.URL.Query().Get("flow")
	f, err := h.ws.Store().GetFlowByName(flowName)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if f == nil {
		_ = sse.ConsoleError(fmt.Errorf("flow not found: %s", flowName))
		return
	}

	provider := f.Provider
	if provider == "" {
		provider = DefaultProvider
	}

	if err := h.patchPicker(sse, View{FlowName: flowName, Provider: provider, Loading: true}); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	models, err := h.fetchCatalog(r, provider)
	if err != nil {
		_ = h.patchPicker(sse, View{FlowName: flowName, Provider: provider, Error: err.Error()})
		return
	}

	view := h.buildLoadedView(flowName, provider, "", f.Model, models)
	if err := h.patchPicker(sse, view); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Filter re-renders the picker list for the current filter signal. It
// reuses the cached catalog so typing never refetches.
func (h *Handlers) Filter(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals Signals
	_ = datastar.ReadSignals(r, &signals)

	flowName := r.URL.Query().Get("flow")
	f, err := h.ws.Store().GetFlowByName(flowName)
	if err != nil || f == nil {
		_ = sse.ConsoleError(fmt.Errorf("flow not found: %s", flowName))
		return
	}

	provider := f.Provider
	if provider == "" {
		provider = DefaultProvider
	}

	models, err := h.fetchCatalog(r, provider)
	if err != nil {
		_ = h.patchPicker(sse, View{FlowName: flowName, Provider: provider, Error: err.Error()})
		return
	}

	view := h.buildLoadedView(flowName, provider, signals.ModelFilter, f.Model, models)
	if err := h.patchPicker(sse, view); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Select assigns the chosen model to the flow and closes the dialog.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	flowName := r.URL.Query().Get("flow")
	provider := r.URL.Query().Get("provider")
	modelID := r.URL.Query().Get("model")
	if flowName == "" || modelID == "" {
		_ = sse.ConsoleError(fmt.Errorf("flow and model are required"))
		return
	}

	if err := h.ws.SetFlowModel(flowName, provider, modelID); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	h.notifier.Broadcast()

	if err := h.close(sse); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// CloseSSE patches the picker back to its empty placeholder.
func (h *Handlers) CloseSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if err := h.close(sse); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// close renders the empty picker slot over the open dialog.
func (h *Handlers) close(sse *datastar.ServerSentEventGenerator) error {
	html, err := render.Fragment(templates, "picker-closed", nil)
	if err != nil {
		return err
	}
	return sse.PatchElements(html)
}

func (h *Handlers) patchPicker(sse *datastar.ServerSentEventGenerator, view View) error {
	html, err := render.Fragment(templates, "picker", view)
	if err != nil {
		return err
	}
	return sse.PatchElements(html)
}

func (h *Handlers) buildLoadedView(flowName, provider, filter, currentModel string, models []core.ModelInfo) View {
	filtered := catalog.FilterModels(models, filter)

	rows := make([]ModelRow, 0, len(filtered))
	for _, m := range filtered {
		rows = append(rows, ModelRow{
			ID:              m.ID,
			Name:            m.Name,
			Pricing:         m.Pricing,
			ContextLength:   m.ContextLength,
			MaxOutputTokens: m.MaxOutputTokens,
			Selected:        m.ID == currentModel,
		})
	}

	return View{
		FlowName: flowName,
		Provider: provider,
		Filter:   filter,
		Models:   rows,
	}
}

func (h *Handlers) fetchCatalog(r *http.Request, provider string) ([]core.ModelInfo, error) {
	h.mu.Lock()
	cached, ok := h.cache[provider]
	h.mu.Unlock()
	if ok && time.Since(cached.fetchedAt) < cacheTTL {
		return cached.models, nil
	}

	models, err := h.client.FetchModels(r.Context(), provider)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.cache[provider] = cachedCatalog{models: models, fetchedAt: time.Now()}
	h.mu.Unlock()
	return models, nil
}
