package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowdeck-labs/flowdeck/internal/flow"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// CreateFlow authors a new local flow file and registers it in the store.
func (w *Workspace) CreateFlow(name, description string) (*core.PersistedFlow, error) {
	if name == "" {
		return nil, fmt.Errorf("flow name is required")
	}

	existing, err := w.store.GetFlowByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("flow already exists: %s", name)
	}

	f := &core.Flow{
		Name:        name,
		Source:      core.SourceLocal,
		Description: description,
	}

	path, err := w.WriteFlowFile(f)
	if err != nil {
		return nil, err
	}
	f.FilePath = path

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read back flow file: %w", err)
	}

	pf := &core.PersistedFlow{Flow: f, ContentHash: computeHash(content)}
	if err := w.store.RegisterFlow(pf); err != nil {
		return nil, err
	}

	w.logger.Info("created flow", "name", name, "path", path)
	return pf, nil
}

// InstallFlow writes an externally sourced flow into the workspace and
// registers it. An existing flow with the same name is overwritten, which
// is how tap upgrades land.
func (w *Workspace) InstallFlow(f *core.Flow) (*core.PersistedFlow, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("flow name is required")
	}

	path, err := w.WriteFlowFile(f)
	if err != nil {
		return nil, err
	}
	f.FilePath = path

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read back flow file: %w", err)
	}

	pf := &core.PersistedFlow{Flow: f, ContentHash: computeHash(content)}
	if err := w.store.RegisterFlow(pf); err != nil {
		return nil, err
	}
	return pf, nil
}

// SetFlowModel assigns a provider and model to a flow. The change is
// written through to the flow file so later rescans keep it.
func (w *Workspace) SetFlowModel(name, provider, model string) error {
	pf, err := w.store.GetFlowByName(name)
	if err != nil {
		return err
	}
	if pf == nil {
		return fmt.Errorf("flow not found: %s", name)
	}

	pf.Provider = provider
	pf.Model = model

	path, err := w.WriteFlowFile(pf.Flow)
	if err != nil {
		return err
	}
	pf.FilePath = path

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read back flow file: %w", err)
	}
	pf.ContentHash = computeHash(content)

	return w.store.RegisterFlow(pf)
}

// WriteFlowFile writes a flow definition into the flows directory and
// returns the absolute file path. Namespaced names create subdirectories.
func (w *Workspace) WriteFlowFile(f *core.Flow) (string, error) {
	data, err := flow.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode flow: %w", err)
	}

	path := filepath.Join(w.flowsDir, flow.FileName(f.Name))
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("failed to create flow directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write flow file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
