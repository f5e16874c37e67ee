package tap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck-labs/flowdeck/internal/testutil"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

const testIndex = `version: "1"
updated_at: "2026-08-01T00:00:00Z"
flows:
  - name: research/summarize
    path: flows/research-summarize.yaml
    description: Summarize research papers
    version: 1.2.0
  - name: triage
    path: flows/triage.yaml
    version: 0.3.1
`

const testFlowFile = `name: research/summarize
description: Summarize research papers
provider: openrouter
model: anthropic/claude-sonnet
version: 1.0.0
mcp_servers:
  - fetch
`

func newTapServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/index.yaml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testIndex))
	})
	mux.HandleFunc("/flows/research-summarize.yaml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testFlowFile))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestManager(t *testing.T) (*Manager, *workspace.Workspace) {
	t.Helper()
	ws, err := workspace.New(workspace.Config{
		FlowsDir:  filepath.Join(t.TempDir(), "flows"),
		StatePath: ":memory:",
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	return NewManager(NewClient(5*time.Second), ws, testutil.NewTestLogger(t)), ws
}

func TestClient_FetchIndex(t *testing.T) {
	srv := newTapServer(t)
	client := NewClient(5 * time.Second)

	index, err := client.FetchIndex(context.Background(), &core.Tap{Name: "acme", URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, "1", index.Version)
	require.Len(t, index.Flows, 2)
	assert.Equal(t, "research/summarize", index.Flows[0].Name)
	assert.Equal(t, "1.2.0", index.Flows[0].Version)
}

func TestClient_FetchIndex_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := NewClient(5 * time.Second)
	_, err := client.FetchIndex(context.Background(), &core.Tap{Name: "acme", URL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_FetchFlow_OverridesSourceAndVersion(t *testing.T) {
	srv := newTapServer(t)
	client := NewClient(5 * time.Second)

	entry := core.TapEntry{Name: "research/summarize", Path: "flows/research-summarize.yaml", Version: "1.2.0"}
	f, err := client.FetchFlow(context.Background(), &core.Tap{Name: "acme", URL: srv.URL}, entry)
	require.NoError(t, err)

	assert.Equal(t, core.TapSource("acme"), f.Source)
	assert.Equal(t, "1.2.0", f.Version)
	assert.Equal(t, []string{"fetch"}, f.RequiredServers)
}

func TestClient_FetchFlow_StoreSource(t *testing.T) {
	srv := newTapServer(t)
	client := NewClient(5 * time.Second)

	entry := core.TapEntry{Name: "research/summarize", Path: "flows/research-summarize.yaml"}
	f, err := client.FetchFlow(context.Background(), &core.Tap{Name: StoreName, URL: srv.URL}, entry)
	require.NoError(t, err)

	assert.Equal(t, core.SourceStore, f.Source)
	assert.Equal(t, "1.0.0", f.Version, "entry without version keeps the file's version")
}

func TestManager_AddListRemove(t *testing.T) {
	srv := newTapServer(t)
	m, _ := newTestManager(t)

	index, err := m.Add(context.Background(), "acme", srv.URL)
	require.NoError(t, err)
	assert.Len(t, index.Flows, 2)

	taps, err := m.List()
	require.NoError(t, err)
	require.Len(t, taps, 1)
	assert.Equal(t, "acme", taps[0].Name)
	assert.Equal(t, srv.URL, taps[0].URL)

	require.NoError(t, m.Remove("acme"))
	taps, err = m.List()
	require.NoError(t, err)
	assert.Empty(t, taps)
}

func TestManager_Add_ReservedName(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Add(context.Background(), StoreName, "http://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestManager_Add_UnreachableTap(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Add(context.Background(), "acme", "http://127.0.0.1:1")
	require.Error(t, err)

	taps, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, taps, "unverifiable tap must not be saved")
}

func TestManager_SyncConfigured(t *testing.T) {
	m, _ := newTestManager(t)

	// An existing registration keeps its URL.
	require.NoError(t, m.store.SaveTap(&core.Tap{
		Name:    "acme",
		URL:     "http://original.example",
		AddedAt: time.Now(),
	}))

	err := m.SyncConfigured([]core.TapConfig{
		{Name: "acme", URL: "http://changed.example"},
		{Name: "partners", URL: "http://partners.example"},
		{Name: StoreName, URL: "http://evil.example"},
		{Name: "", URL: "http://nameless.example"},
		{Name: "urlless", URL: ""},
	})
	require.NoError(t, err)

	taps, err := m.List()
	require.NoError(t, err)
	require.Len(t, taps, 2)

	byName := map[string]string{}
	for _, tp := range taps {
		byName[tp.Name] = tp.URL
	}
	assert.Equal(t, "http://original.example", byName["acme"])
	assert.Equal(t, "http://partners.example", byName["partners"])
}

func TestManager_Install(t *testing.T) {
	srv := newTapServer(t)
	m, ws := newTestManager(t)

	_, err := m.Add(context.Background(), "acme", srv.URL)
	require.NoError(t, err)

	pf, err := m.Install(context.Background(), "acme", "research/summarize")
	require.NoError(t, err)
	assert.Equal(t, core.TapSource("acme"), pf.Source)
	assert.Equal(t, "1.2.0", pf.Version)
	assert.FileExists(t, pf.FilePath)

	stored, err := ws.Store().GetFlowByName("research/summarize")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, core.TapSource("acme"), stored.Source)
}

func TestManager_Install_UnknownFlow(t *testing.T) {
	srv := newTapServer(t)
	m, _ := newTestManager(t)

	_, err := m.Add(context.Background(), "acme", srv.URL)
	require.NoError(t, err)

	_, err = m.Install(context.Background(), "acme", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in tap")
}

func TestManager_Install_UnknownTap(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Install(context.Background(), "ghost", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestManager_Upgrades(t *testing.T) {
	srv := newTapServer(t)
	m, ws := newTestManager(t)

	_, err := m.Add(context.Background(), "acme", srv.URL)
	require.NoError(t, err)

	// Installed at an older version than the index advertises.
	_, err = ws.InstallFlow(&core.Flow{
		Name:    "research/summarize",
		Source:  core.TapSource("acme"),
		Version: "1.0.0",
	})
	require.NoError(t, err)

	// Already current, must not be flagged.
	_, err = ws.InstallFlow(&core.Flow{
		Name:    "triage",
		Source:  core.TapSource("acme"),
		Version: "0.3.1",
	})
	require.NoError(t, err)

	upgrades, err := m.Upgrades(context.Background())
	require.NoError(t, err)
	require.Len(t, upgrades, 1)
	assert.Equal(t, "research/summarize", upgrades[0].Flow.Name)
	assert.Equal(t, "1.2.0", upgrades[0].Available)
	assert.Equal(t, "acme", upgrades[0].TapName)
}

func TestNewer(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		available string
		want      bool
	}{
		{"newer patch", "1.0.0", "1.0.1", true},
		{"newer minor", "1.0.0", "1.2.0", true},
		{"equal", "1.2.0", "1.2.0", false},
		{"older", "2.0.0", "1.9.9", false},
		{"missing current", "", "1.0.0", false},
		{"missing available", "1.0.0", "", false},
		{"garbage current", "abc", "1.0.0", false},
		{"garbage available", "1.0.0", "latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newer(tt.current, tt.available))
		})
	}
}
