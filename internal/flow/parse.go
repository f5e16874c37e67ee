// Package flow provides YAML parsing and discovery for flow definition files.
package flow

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// Definition represents a parsed flow YAML file.
// Unknown fields cause parse errors (use Meta for extensions).
type Definition struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Source      string         `yaml:"source,omitempty"` // local, store, tap:<name>
	Collection  string         `yaml:"collection,omitempty"`
	Provider    string         `yaml:"provider,omitempty"`
	Model       string         `yaml:"model,omitempty"`
	Version     string         `yaml:"version,omitempty"`
	MCPServers  []string       `yaml:"mcp_servers,omitempty"`
	Meta        map[string]any `yaml:"meta,omitempty"` // Extension point for custom fields
}

// ParseError carries file context for a flow file that failed to parse.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes a flow definition from YAML content.
// The path is recorded on the resulting flow and in parse errors.
func Parse(content []byte, path string) (*core.Flow, error) {
	var def Definition

	// Strict decode to reject unknown fields
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if err := validate(&def); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	source := core.FlowSource(def.Source)
	if def.Source == "" {
		source = core.SourceLocal
	}

	return &core.Flow{
		Name:            def.Name,
		Source:          source,
		Collection:      def.Collection,
		Description:     def.Description,
		Provider:        def.Provider,
		Model:           def.Model,
		Version:         def.Version,
		RequiredServers: def.MCPServers,
		FilePath:        path,
	}, nil
}

func validate(def *Definition) error {
	if def.Name == "" {
		return fmt.Errorf("flow name is required")
	}
	if strings.HasPrefix(def.Name, "/") || strings.HasSuffix(def.Name, "/") {
		return fmt.Errorf("invalid flow name %q: leading or trailing slash", def.Name)
	}

	switch {
	case def.Source == "", def.Source == string(core.SourceLocal), def.Source == string(core.SourceStore):
	case core.FlowSource(def.Source).IsTap():
		if core.FlowSource(def.Source).TapName() == "" {
			return fmt.Errorf("invalid source %q: tap name is empty", def.Source)
		}
	default:
		return fmt.Errorf("invalid source %q: must be local, store, or tap:<name>", def.Source)
	}

	return nil
}

// Marshal encodes a flow back into its YAML file shape.
// Used when installing flows from the store or a tap.
func Marshal(f *core.Flow) ([]byte, error) {
	def := Definition{
		Name:        f.Name,
		Description: f.Description,
		Source:      string(f.Source),
		Collection:  f.Collection,
		Provider:    f.Provider,
		Model:       f.Model,
		Version:     f.Version,
		MCPServers:  f.RequiredServers,
	}
	return yaml.Marshal(&def)
}
