package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	content := `flows_dir: my-flows
catalog:
  base_url: http://localhost:9999
  timeout_seconds: 5
taps:
  - name: acme
    url: https://taps.acme.dev
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "my-flows", cfg.FlowsDir)
	assert.Equal(t, "http://localhost:9999", cfg.Catalog.BaseURL)
	assert.Equal(t, 5, cfg.Catalog.TimeoutSeconds)
	require.Len(t, cfg.Taps, 1)
	assert.Equal(t, "acme", cfg.Taps[0].Name)
}

func TestLoadFromDir_Defaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{}\n"), 0600))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultFlowsDir, cfg.FlowsDir)
	assert.Equal(t, DefaultCatalogBaseURL, cfg.Catalog.BaseURL)
}

func TestLoadFromDir_NoConfigFile(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromDir_YmlFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("flows_dir: alt\n"), 0600))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "alt", cfg.FlowsDir)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}\n"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, root, FindProjectRoot(root))
}

func TestFindProjectRoot_NotFound(t *testing.T) {
	assert.Equal(t, "", FindProjectRoot(t.TempDir()))
}
