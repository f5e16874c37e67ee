// Package mcp resolves and installs MCP server dependencies for flows.
package mcp

import (
	"fmt"
	"sort"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// Registry abstracts the slice of the state store the resolver needs.
type Registry interface {
	ListInstalledServers() ([]*core.MCPServer, error)
	IsServerInstalled(name string) (bool, error)
	RecordServerInstall(server *core.MCPServer) error
}

// KnownServer describes a server definition available for install, with the
// tool names it provides. Definitions come from the store catalog or taps.
type KnownServer struct {
	Server core.MCPServer
	Tools  []string
}

// Resolver computes dependency status for flows.
type Resolver struct {
	registry Registry
	known    map[string]KnownServer
}

// NewResolver creates a Resolver. The known map may be nil.
func NewResolver(registry Registry, known map[string]KnownServer) *Resolver {
	return &Resolver{registry: registry, known: known}
}

// Known returns the server definition for name, if the resolver has one.
func (r *Resolver) Known(name string) (KnownServer, bool) {
	ks, ok := r.known[name]
	return ks, ok
}

// Resolve computes the dependency records for a flow. Installed status is
// computed here, once, against the install registry; views only render it.
// Results are sorted by server name.
func (r *Resolver) Resolve(f *core.Flow) ([]core.MCPDependency, error) {
	installed := make(map[string]bool)
	servers, err := r.registry.ListInstalledServers()
	if err != nil {
		return nil, fmt.Errorf("failed to list installed servers: %w", err)
	}
	for _, s := range servers {
		installed[s.Name] = true
	}

	deps := make([]core.MCPDependency, 0, len(f.RequiredServers))
	seen := make(map[string]bool, len(f.RequiredServers))
	for _, name := range f.RequiredServers {
		if seen[name] {
			continue
		}
		seen[name] = true

		dep := core.MCPDependency{
			ServerName: name,
			Installed:  installed[name],
			Source:     f.Source,
		}
		if ks, ok := r.known[name]; ok {
			dep.Tools = ks.Tools
		}
		deps = append(deps, dep)
	}

	sort.Slice(deps, func(i, j int) bool {
		return deps[i].ServerName < deps[j].ServerName
	})

	return deps, nil
}
