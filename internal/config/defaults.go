// Package config loads project-level configuration for Flowdeck.
// This package is decoupled from CLI concerns so tools that only need the
// project file (like the UI server) can load it directly.
package config

import "github.com/flowdeck-labs/flowdeck/pkg/core"

// Default configuration values.
const (
	DefaultFlowsDir       = "flows"
	DefaultCatalogBaseURL = "https://models.flowdeck.dev"
	DefaultStateFileName  = "flowdeck.db"
)

// ApplyDefaults applies default values to a ProjectConfig.
func ApplyDefaults(c *core.ProjectConfig) {
	if c == nil {
		return
	}
	if c.FlowsDir == "" {
		c.FlowsDir = DefaultFlowsDir
	}
	if c.Catalog == nil {
		c.Catalog = &core.CatalogConfig{}
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = DefaultCatalogBaseURL
	}
}
