package mcp

import "github.com/flowdeck-labs/flowdeck/pkg/core"

// DefaultKnownServers returns the built-in server definitions. Flows can
// depend on these by name and install them without spelling out a command.
func DefaultKnownServers() map[string]KnownServer {
	return map[string]KnownServer{
		"fetch": {
			Server: core.MCPServer{
				Name:    "fetch",
				Command: "uvx",
				Args:    []string{"mcp-server-fetch"},
			},
			Tools: []string{"fetch"},
		},
		"filesystem": {
			Server: core.MCPServer{
				Name:    "filesystem",
				Command: "npx",
				Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "."},
			},
			Tools: []string{"read_file", "write_file", "list_directory"},
		},
		"git": {
			Server: core.MCPServer{
				Name:    "git",
				Command: "uvx",
				Args:    []string{"mcp-server-git"},
			},
			Tools: []string{"git_status", "git_diff", "git_log"},
		},
		"github": {
			Server: core.MCPServer{
				Name:    "github",
				Command: "npx",
				Args:    []string{"-y", "@modelcontextprotocol/server-github"},
			},
			Tools: []string{"search_repositories", "get_file_contents", "create_issue"},
		},
		"memory": {
			Server: core.MCPServer{
				Name:    "memory",
				Command: "npx",
				Args:    []string{"-y", "@modelcontextprotocol/server-memory"},
			},
			Tools: []string{"create_entities", "search_nodes"},
		},
		"sequential-thinking": {
			Server: core.MCPServer{
				Name:    "sequential-thinking",
				Command: "npx",
				Args:    []string{"-y", "@modelcontextprotocol/server-sequential-thinking"},
			},
			Tools: []string{"sequentialthinking"},
		},
	}
}
