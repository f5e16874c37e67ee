// Package core defines the shared language of the Flowdeck system.
//
// This package contains:
//   - Domain entities (Flow, MCPServer, ModelInfo, Tap)
//   - Service interfaces (Store)
//   - Configuration types (ProjectConfig)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
