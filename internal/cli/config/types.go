// Package config provides configuration management for the Flowdeck CLI.
//
// It layers defaults, the project config file, FLOWDECK_ environment
// variables, and CLI flags with koanf. The shared project types live in
// pkg/core; this package adds CLI-specific fields on top.
package config

import (
	intconfig "github.com/flowdeck-labs/flowdeck/internal/config"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port     int  `koanf:"port"`
	AutoOpen bool `koanf:"auto_open"`
	Watch    bool `koanf:"watch"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     4400,
		AutoOpen: true,
		Watch:    true,
	}
}

// GetUIConfig returns the UI config with defaults applied for unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = 4400
	}
	return ui
}

// Config holds all CLI configuration options.
type Config struct {
	FlowsDir     string              `koanf:"flows_dir"`
	StatePath    string              `koanf:"state_path"`
	Verbose      bool                `koanf:"verbose"`
	OutputFormat string              `koanf:"output"`
	Catalog      *core.CatalogConfig `koanf:"catalog"`
	Taps         []core.TapConfig    `koanf:"taps"`
	UI           *UIConfig           `koanf:"ui"`

	// ProjectRoot is inferred at load time, never read from the file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultFlowsDir  = intconfig.DefaultFlowsDir
	DefaultStateFile = intconfig.DefaultStateFileName
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
