package mcp

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// ServersFileName is the MCP servers config file written by the installer.
const ServersFileName = "mcp_servers.json"

// serversFile is the on-disk config shape consumed by agent runtimes.
type serversFile struct {
	MCPServers map[string]serverEntry `json:"mcpServers"`
}

type serverEntry struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
}

// Installer installs MCP server definitions: it updates the servers config
// file and records the install in the registry.
type Installer struct {
	registry  Registry
	configDir string
	logger    *slog.Logger
}

// NewInstaller creates an Installer writing into configDir.
func NewInstaller(registry Registry, configDir string, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Installer{registry: registry, configDir: configDir, logger: logger}
}

// Install adds a server to the config file and the install registry.
// An existing entry with the same name is replaced.
func (i *Installer) Install(server *core.MCPServer) error {
	if server.Name == "" {
		return fmt.Errorf("server name is required")
	}
	if server.Command == "" && server.URL == "" {
		return fmt.Errorf("server %s: either command or url is required", server.Name)
	}

	cfg, err := i.readServersFile()
	if err != nil {
		return err
	}

	cfg.MCPServers[server.Name] = serverEntry{
		Command: server.Command,
		Args:    server.Args,
		Env:     server.Env,
		URL:     server.URL,
	}

	if err := i.writeServersFile(cfg); err != nil {
		return err
	}

	if err := i.registry.RecordServerInstall(server); err != nil {
		return fmt.Errorf("failed to record install: %w", err)
	}

	i.logger.Info("installed MCP server", "name", server.Name)
	return nil
}

// ConfigPath returns the path of the servers config file.
func (i *Installer) ConfigPath() string {
	return filepath.Join(i.configDir, ServersFileName)
}

func (i *Installer) readServersFile() (*serversFile, error) {
	cfg := &serversFile{MCPServers: make(map[string]serverEntry)}

	data, err := os.ReadFile(i.ConfigPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read servers config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse servers config: %w", err)
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]serverEntry)
	}
	return cfg, nil
}

func (i *Installer) writeServersFile(cfg *serversFile) error {
	if err := os.MkdirAll(i.configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode servers config: %w", err)
	}

	if err := os.WriteFile(i.ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write servers config: %w", err)
	}
	return nil
}
