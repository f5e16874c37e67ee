package core

import "database/sql"

// Store defines the interface for state management operations.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	// Flow operations (uses PersistedFlow for storage)
	RegisterFlow(flow *PersistedFlow) error
	GetFlowByID(id string) (*PersistedFlow, error)
	GetFlowByName(name string) (*PersistedFlow, error)
	ListFlows() ([]*PersistedFlow, error)
	DeleteFlowByName(name string) error
	DeleteFlowByFilePath(filePath string) error
	ListFlowFilePaths() ([]string, error)
	SetFlowModel(name, provider, model string) error

	// MCP server install registry
	RecordServerInstall(server *MCPServer) error
	ListInstalledServers() ([]*MCPServer, error)
	IsServerInstalled(name string) (bool, error)
	RemoveServerInstall(name string) error

	// Tap registry
	SaveTap(tap *Tap) error
	GetTap(name string) (*Tap, error)
	ListTaps() ([]*Tap, error)
	DeleteTap(name string) error
}

// QueryableStore is implemented by stores that expose their underlying
// database connection for ad-hoc inspection.
type QueryableStore interface {
	Store
	DB() *sql.DB
}
