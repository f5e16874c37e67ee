package core

import "time"

// Tap is a named external collection of installable flow definitions.
type Tap struct {
	// Name is the tap name used in source tags ("tap:<name>")
	Name string
	// URL is the base URL the tap index and flow files are fetched from
	URL string
	// AddedAt records when the tap was registered
	AddedAt time.Time
}

// TapIndex is the wire shape of a tap's index.yaml.
type TapIndex struct {
	Version   string     `yaml:"version"`
	UpdatedAt string     `yaml:"updated_at,omitempty"`
	Flows     []TapEntry `yaml:"flows"`
}

// TapEntry is a single installable flow in a tap index.
type TapEntry struct {
	// Name is the flow name, usually namespaced "collection/name"
	Name string `yaml:"name"`
	// Path is the flow file path relative to the tap URL
	Path string `yaml:"path"`
	// Description is an optional one-line summary
	Description string `yaml:"description,omitempty"`
	// Version is the flow definition version (semver, optional)
	Version string `yaml:"version,omitempty"`
}
