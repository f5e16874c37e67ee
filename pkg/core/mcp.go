package core

// MCPServer represents an installed MCP server configuration.
// Either Command (stdio servers) or URL (remote servers) is set.
type MCPServer struct {
	// Name uniquely identifies the server
	Name string `json:"name" yaml:"name"`
	// Command is the executable for stdio servers (e.g. "npx", "node")
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	// Args are the command arguments
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	// Env holds extra environment variables for the server process
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	// URL is the endpoint for remote (HTTP/SSE) servers
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// MCPDependency is the display-time record for a flow's MCP server
// dependency. Installed is computed by the resolver against the install
// registry; the view layer never computes it.
type MCPDependency struct {
	// ServerName is the required MCP server name
	ServerName string
	// Installed is true when the server is present in the install registry
	Installed bool
	// Source identifies which flow source required the server
	Source FlowSource
	// Tools lists the tool names the server provides, when known
	Tools []string
}
