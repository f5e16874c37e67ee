package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("project-dir", "", "")
	flags.String("flows-dir", "", "")
	flags.String("state", "", "")
	flags.Bool("verbose", false, "")
	flags.String("output", "", "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	flags := newTestFlags()
	require.NoError(t, flags.Parse([]string{"--project-dir", t.TempDir()}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, DefaultFlowsDir, filepath.Base(cfg.FlowsDir))
	assert.Equal(t, DefaultStateFile, filepath.Base(cfg.StatePath))
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	require.NotNil(t, cfg.Catalog)
	assert.NotEmpty(t, cfg.Catalog.BaseURL)
}

func TestLoadConfig_FromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	content := `flows_dir: agents
catalog:
  base_url: http://localhost:7777
ui:
  port: 5511
`
	cfgPath := filepath.Join(dir, "flowdeck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "agents"), cfg.FlowsDir)
	assert.Equal(t, "http://localhost:7777", cfg.Catalog.BaseURL)
	assert.Equal(t, 5511, cfg.GetUIConfig().Port)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "flowdeck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("flows_dir: from-file\n"), 0600))
	t.Setenv("FLOWDECK_FLOWS_DIR", "from-env")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "from-env"), cfg.FlowsDir)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	t.Setenv("FLOWDECK_OUTPUT", "markdown")
	flags := newTestFlags()
	require.NoError(t, flags.Parse([]string{"--project-dir", t.TempDir(), "--output", "json"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_StateFlagMapsToStatePath(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	statePath := filepath.Join(dir, "custom.db")
	flags := newTestFlags()
	require.NoError(t, flags.Parse([]string{"--project-dir", dir, "--state", statePath}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, statePath, cfg.StatePath)
}

func TestLoadConfig_MemoryStateUntouched(t *testing.T) {
	ResetConfig()
	flags := newTestFlags()
	require.NoError(t, flags.Parse([]string{"--project-dir", t.TempDir(), "--state", ":memory:"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.StatePath)
}

func TestGetUIConfig_Defaults(t *testing.T) {
	var c Config
	ui := c.GetUIConfig()
	assert.Equal(t, 4400, ui.Port)
	assert.True(t, ui.AutoOpen)
	assert.True(t, ui.Watch)
}
