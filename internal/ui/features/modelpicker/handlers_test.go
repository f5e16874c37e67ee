package modelpicker

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck-labs/flowdeck/internal/catalog"
	"github.com/flowdeck-labs/flowdeck/internal/ui/features"
)

const testCatalog = `{
  "data": [
    {"id": "gpt-4o-mini", "name": "GPT-4o Mini", "pricing": {"prompt": 0.15, "completion": 0.6}, "context_length": 128000, "max_output_tokens": 16384},
    {"id": "gpt-4o", "name": "GPT-4o", "pricing": {"prompt": 2.5, "completion": 10}, "context_length": 128000},
    {"id": "o3-mini", "name": "o3 Mini"}
  ]
}`

func setupTestHandlers(t *testing.T, flows ...features.TestFlow) (*Handlers, *features.TestFixture, *int) {
	t.Helper()

	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testCatalog))
	}))
	t.Cleanup(srv.Close)

	fixture := features.SetupTestFixture(t, flows...)
	client := catalog.NewClient(srv.URL, time.Second)
	handlers := NewHandlers(fixture.Workspace, client, fixture.Notifier)
	return handlers, fixture, &fetches
}

func TestOpen(t *testing.T) {
	h, _, _ := setupTestHandlers(t, features.TestFlow{
		Name:     "triage",
		Provider: "openai",
		Model:    "gpt-4o",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/models/picker?flow=triage", nil)
	rec := httptest.NewRecorder()

	h.Open(rec, req)

	body := rec.Body.String()
	// The loading state goes out first, then the loaded list replaces it.
	assert.Contains(t, body, "Loading models...")
	assert.Contains(t, body, "Select model (openai)")
	assert.Contains(t, body, "GPT-4o Mini")
	assert.Contains(t, body, "o3 Mini")
	// The flow's current model is marked, not offered again.
	assert.Contains(t, body, "current")
	assert.Contains(t, body, "$0.15/$0.60 per Mtok")
	assert.Contains(t, body, "128000 ctx")
}

func TestOpen_DefaultProvider(t *testing.T) {
	h, _, _ := setupTestHandlers(t, features.TestFlow{Name: "triage"})

	req := httptest.NewRequest(http.MethodGet, "/api/models/picker?flow=triage", nil)
	rec := httptest.NewRecorder()

	h.Open(rec, req)

	assert.Contains(t, rec.Body.String(), "Select model ("+DefaultProvider+")")
}

func TestOpen_UnknownFlow(t *testing.T) {
	h, _, fetches := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/models/picker?flow=nope", nil)
	rec := httptest.NewRecorder()

	h.Open(rec, req)

	assert.NotContains(t, rec.Body.String(), "Loading models...")
	assert.Equal(t, 0, *fetches)
}

func TestOpen_CatalogError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	fixture := features.SetupTestFixture(t, features.TestFlow{Name: "triage", Provider: "openai"})
	h := NewHandlers(fixture.Workspace, catalog.NewClient(srv.URL, time.Second), fixture.Notifier)

	req := httptest.NewRequest(http.MethodGet, "/api/models/picker?flow=triage", nil)
	rec := httptest.NewRecorder()

	h.Open(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "Failed to load models")
	assert.Contains(t, body, "Retry")
	assert.NotContains(t, body, "model-list")
}

func TestFilter(t *testing.T) {
	h, _, _ := setupTestHandlers(t, features.TestFlow{Name: "triage", Provider: "openai"})

	signals := url.QueryEscape(`{"modelFilter":"mini"}`)
	req := httptest.NewRequest(http.MethodGet, "/api/models/filter?flow=triage&datastar="+signals, nil)
	rec := httptest.NewRecorder()

	h.Filter(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "GPT-4o Mini")
	assert.Contains(t, body, "o3 Mini")
	// Plain GPT-4o is filtered out; its select action must not render.
	assert.NotContains(t, body, "model=gpt-4o'")
}

func TestFilter_ReusesCachedCatalog(t *testing.T) {
	h, _, fetches := setupTestHandlers(t, features.TestFlow{Name: "triage", Provider: "openai"})

	open := httptest.NewRequest(http.MethodGet, "/api/models/picker?flow=triage", nil)
	h.Open(httptest.NewRecorder(), open)
	require.Equal(t, 1, *fetches)

	for _, q := range []string{"mini", "o3", ""} {
		signals := url.QueryEscape(`{"modelFilter":"` + q + `"}`)
		req := httptest.NewRequest(http.MethodGet, "/api/models/filter?flow=triage&datastar="+signals, nil)
		h.Filter(httptest.NewRecorder(), req)
	}

	// Filtering works against the catalog fetched when the dialog opened.
	assert.Equal(t, 1, *fetches)
}

func TestFilter_NoMatches(t *testing.T) {
	h, _, _ := setupTestHandlers(t, features.TestFlow{Name: "triage", Provider: "openai"})

	signals := url.QueryEscape(`{"modelFilter":"zzz"}`)
	req := httptest.NewRequest(http.MethodGet, "/api/models/filter?flow=triage&datastar="+signals, nil)
	rec := httptest.NewRecorder()

	h.Filter(rec, req)

	assert.Contains(t, rec.Body.String(), "No models match")
}

func TestSelect(t *testing.T) {
	h, fixture, _ := setupTestHandlers(t, features.TestFlow{
		Name:     "triage",
		Provider: "openai",
		Model:    "gpt-4o",
	})

	updates := fixture.Notifier.Subscribe()
	defer fixture.Notifier.Unsubscribe(updates)

	req := httptest.NewRequest(http.MethodPost, "/api/models/select?flow=triage&provider=openai&model=gpt-4o-mini", nil)
	rec := httptest.NewRecorder()

	h.Select(rec, req)

	pf, err := fixture.Store.GetFlowByName("triage")
	require.NoError(t, err)
	require.NotNil(t, pf)
	assert.Equal(t, "gpt-4o-mini", pf.Model)
	assert.Equal(t, "openai", pf.Provider)

	// The selection writes through to the flow file so rescans keep it.
	content, err := os.ReadFile(pf.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "model: gpt-4o-mini")

	select {
	case <-updates:
	default:
		t.Fatal("expected a broadcast after model selection")
	}

	// The dialog closes by patching back the empty placeholder through the
	// one SSE stream: a single patch event, no re-flushed headers.
	body := rec.Body.String()
	assert.Contains(t, body, `<div id="model-picker"></div>`)
	assert.Equal(t, 1, strings.Count(body, "event:"))
}

func TestSelect_MissingModel(t *testing.T) {
	h, fixture, _ := setupTestHandlers(t, features.TestFlow{
		Name:     "triage",
		Provider: "openai",
		Model:    "gpt-4o",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/models/select?flow=triage", nil)
	rec := httptest.NewRecorder()

	h.Select(rec, req)

	pf, err := fixture.Store.GetFlowByName("triage")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", pf.Model)
}

func TestCloseSSE(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/models/close", nil)
	rec := httptest.NewRecorder()

	h.CloseSSE(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, `<div id="model-picker"></div>`)
	assert.Equal(t, 1, strings.Count(body, "event:"))
}
