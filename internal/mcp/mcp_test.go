package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck-labs/flowdeck/internal/state"
	"github.com/flowdeck-labs/flowdeck/internal/testutil"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

func setupRegistry(t *testing.T) *state.SQLiteStore {
	t.Helper()
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestResolver_Resolve(t *testing.T) {
	registry := setupRegistry(t)
	require.NoError(t, registry.RecordServerInstall(&core.MCPServer{
		Name:    "fetch",
		Command: "npx",
	}))

	known := map[string]KnownServer{
		"filesystem": {Tools: []string{"read_file", "write_file"}},
	}
	r := NewResolver(registry, known)

	f := &core.Flow{
		Name:            "research/scraper",
		Source:          core.SourceStore,
		RequiredServers: []string{"filesystem", "fetch", "fetch"},
	}

	deps, err := r.Resolve(f)
	require.NoError(t, err)
	require.Len(t, deps, 2, "duplicate requirements collapse to one record")

	// Sorted by server name
	assert.Equal(t, "fetch", deps[0].ServerName)
	assert.True(t, deps[0].Installed)
	assert.Empty(t, deps[0].Tools)

	assert.Equal(t, "filesystem", deps[1].ServerName)
	assert.False(t, deps[1].Installed)
	assert.Equal(t, []string{"read_file", "write_file"}, deps[1].Tools)

	// Source tag is carried through for display
	assert.Equal(t, core.SourceStore, deps[0].Source)
}

func TestResolver_NoRequirements(t *testing.T) {
	r := NewResolver(setupRegistry(t), nil)

	deps, err := r.Resolve(&core.Flow{Name: "plain"})
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestInstaller_Install(t *testing.T) {
	registry := setupRegistry(t)
	configDir := t.TempDir()
	inst := NewInstaller(registry, configDir, testutil.NewTestLogger(t))

	server := &core.MCPServer{
		Name:    "fetch",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-fetch"},
	}
	require.NoError(t, inst.Install(server))

	// Registry records the install
	installed, err := registry.IsServerInstalled("fetch")
	require.NoError(t, err)
	assert.True(t, installed)

	// Config file carries the mcpServers map
	data, err := os.ReadFile(filepath.Join(configDir, ServersFileName))
	require.NoError(t, err)

	var cfg map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.Contains(t, cfg["mcpServers"], "fetch")
}

func TestInstaller_InstallMergesExisting(t *testing.T) {
	registry := setupRegistry(t)
	configDir := t.TempDir()
	inst := NewInstaller(registry, configDir, testutil.NewTestLogger(t))

	require.NoError(t, inst.Install(&core.MCPServer{Name: "fetch", Command: "npx"}))
	require.NoError(t, inst.Install(&core.MCPServer{Name: "linear", URL: "https://mcp.linear.app/mcp"}))

	cfg, err := inst.readServersFile()
	require.NoError(t, err)
	assert.Len(t, cfg.MCPServers, 2)
	assert.Equal(t, "https://mcp.linear.app/mcp", cfg.MCPServers["linear"].URL)
}

func TestInstaller_Validation(t *testing.T) {
	inst := NewInstaller(setupRegistry(t), t.TempDir(), nil)

	assert.Error(t, inst.Install(&core.MCPServer{Command: "npx"}), "name is required")
	assert.Error(t, inst.Install(&core.MCPServer{Name: "empty"}), "command or url is required")
}
