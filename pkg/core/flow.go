package core

import (
	"strings"
	"time"
)

// FlowSource identifies where a flow definition came from.
type FlowSource string

// Flow source constants. Tap sources use the "tap:<name>" form and should be
// constructed with TapSource.
const (
	// SourceLocal marks a flow authored in the local flows directory.
	SourceLocal FlowSource = "local"
	// SourceStore marks a flow installed from the built-in store catalog.
	SourceStore FlowSource = "store"
)

// TapSource returns the source tag for a flow installed from the named tap.
func TapSource(tapName string) FlowSource {
	return FlowSource("tap:" + tapName)
}

// IsTap reports whether the source refers to a tap.
func (s FlowSource) IsTap() bool {
	return strings.HasPrefix(string(s), "tap:")
}

// TapName returns the tap name for a tap source, or "" for local/store.
func (s FlowSource) TapName() string {
	if !s.IsTap() {
		return ""
	}
	return strings.TrimPrefix(string(s), "tap:")
}

// Flow represents an agent flow configuration.
// This contains the core identity fields only. Persistence-specific fields
// (ID, ContentHash, timestamps) belong in PersistedFlow.
type Flow struct {
	// Name is the flow name, possibly namespaced as "collection/name"
	Name string
	// Source identifies where the flow came from: local, store, or tap:<name>
	Source FlowSource
	// Collection is the optional collection the flow belongs to.
	// When empty, CollectionName derives it from the name prefix.
	Collection string
	// Description is a human-readable description of the flow
	Description string
	// Provider is the model provider the flow is configured for
	Provider string
	// Model is the selected model identifier
	Model string
	// Version is the flow definition version (semver, optional)
	Version string
	// RequiredServers lists the MCP servers the flow depends on
	RequiredServers []string
	// FilePath is the absolute path to the flow YAML file
	FilePath string
}

// ShortName returns the flow name without its collection prefix.
func (f *Flow) ShortName() string {
	if i := strings.LastIndex(f.Name, "/"); i >= 0 {
		return f.Name[i+1:]
	}
	return f.Name
}

// CollectionName returns the effective collection for grouping purposes.
// It is a pure function of the source tag, the explicit collection field,
// and the name prefix; it never mutates the flow.
func (f *Flow) CollectionName() string {
	if f.Collection != "" {
		return f.Collection
	}
	if i := strings.Index(f.Name, "/"); i > 0 {
		return f.Name[:i]
	}
	if f.Source.IsTap() {
		return f.Source.TapName()
	}
	return ""
}

// PersistedFlow represents a flow stored in the state database.
// It wraps Flow with persistence-specific fields.
type PersistedFlow struct {
	*Flow              // Embed core identity
	ID          string // Database primary key
	ContentHash string // For change detection
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
