// Package commands implements the Flowdeck CLI subcommands.
package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck-labs/flowdeck/internal/catalog"
	"github.com/flowdeck-labs/flowdeck/internal/cli/config"
	"github.com/flowdeck-labs/flowdeck/internal/cli/output"
	"github.com/flowdeck-labs/flowdeck/internal/tap"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Workspace *workspace.Workspace
	Renderer  *output.Renderer
}

// NewCommandContext creates a CommandContext with an open workspace.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	ws, err := workspace.New(workspace.Config{
		FlowsDir:  cfg.FlowsDir,
		StatePath: cfg.StatePath,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = ws.Close()
	}

	return &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Workspace: ws,
		Renderer:  r,
	}, cleanup, nil
}

// NewCommandContextWithoutWorkspace creates a CommandContext without opening
// the state store. Useful for commands that never touch flows.
func NewCommandContextWithoutWorkspace(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// TapManager builds a tap manager over the command's workspace. Taps
// declared in the config file are registered before first use.
func (c *CommandContext) TapManager() (*tap.Manager, error) {
	m := tap.NewManager(tap.NewClient(catalogTimeout(c.Cfg)), c.Workspace, c.Logger)
	if err := m.SyncConfigured(c.Cfg.Taps); err != nil {
		return nil, err
	}
	return m, nil
}

// CatalogClient builds a model catalog client from the config.
func (c *CommandContext) CatalogClient() *catalog.Client {
	baseURL := ""
	if c.Cfg.Catalog != nil {
		baseURL = c.Cfg.Catalog.BaseURL
	}
	return catalog.NewClient(baseURL, catalogTimeout(c.Cfg))
}

func catalogTimeout(cfg *config.Config) time.Duration {
	if cfg.Catalog != nil && cfg.Catalog.TimeoutSeconds > 0 {
		return time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	}
	return catalog.DefaultTimeout
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables with defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		FlowsDir:     getEnvOrDefault("FLOWDECK_FLOWS_DIR", config.DefaultFlowsDir),
		StatePath:    getEnvOrDefault("FLOWDECK_STATE_PATH", config.DefaultStateFile),
		OutputFormat: getEnvOrDefault("FLOWDECK_OUTPUT", config.DefaultOutput),
		Catalog:      &core.CatalogConfig{},
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
