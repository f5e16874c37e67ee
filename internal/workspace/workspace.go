// Package workspace orchestrates flow discovery and state for a Flowdeck
// project. It owns the state store and keeps it in sync with the flows
// directory.
package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/flowdeck-labs/flowdeck/internal/flow"
	"github.com/flowdeck-labs/flowdeck/internal/state"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// Workspace coordinates the flows directory and the state store.
type Workspace struct {
	store    core.Store
	scanner  *flow.Scanner
	flowsDir string
	logger   *slog.Logger
}

// Config holds workspace configuration.
type Config struct {
	// FlowsDir is the path to the flows directory
	FlowsDir string
	// StatePath is the path to the SQLite state database
	StatePath string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// DiscoveryResult summarizes a discovery pass.
type DiscoveryResult struct {
	FlowsTotal int
	Pruned     int
	Duration   time.Duration
}

// New creates a workspace and opens its state store.
func New(cfg Config) (*Workspace, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing workspace", "flows_dir", cfg.FlowsDir)

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state store: %w", err)
	}

	return &Workspace{
		store:    store,
		scanner:  flow.NewScanner(logger),
		flowsDir: cfg.FlowsDir,
		logger:   logger,
	}, nil
}

// Close closes the underlying state store.
func (w *Workspace) Close() error {
	return w.store.Close()
}

// Store returns the state store.
func (w *Workspace) Store() core.Store {
	return w.store
}

// FlowsDir returns the flows directory path.
func (w *Workspace) FlowsDir() string {
	return w.flowsDir
}

// Discover scans the flows directory, syncs every flow into the store, and
// prunes records whose files no longer exist.
func (w *Workspace) Discover() (*DiscoveryResult, error) {
	start := time.Now()
	result := &DiscoveryResult{}

	w.logger.Info("starting discovery", "flows_dir", w.flowsDir)

	flows, err := w.scanner.Scan(w.flowsDir)
	if err != nil {
		return result, fmt.Errorf("flow discovery failed: %w", err)
	}

	seen := make(map[string]bool, len(flows))
	for _, f := range flows {
		content, err := os.ReadFile(f.FilePath)
		if err != nil {
			w.logger.Warn("failed to re-read flow file", "path", f.FilePath, "error", err)
			continue
		}

		pf := &core.PersistedFlow{Flow: f, ContentHash: computeHash(content)}
		if err := w.store.RegisterFlow(pf); err != nil {
			return result, fmt.Errorf("failed to register flow %s: %w", f.Name, err)
		}

		seen[f.FilePath] = true
		result.FlowsTotal++
	}

	// Prune records whose files vanished
	tracked, err := w.store.ListFlowFilePaths()
	if err != nil {
		return result, fmt.Errorf("failed to list tracked flows: %w", err)
	}
	for _, path := range tracked {
		if seen[path] {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := w.store.DeleteFlowByFilePath(path); err != nil {
				return result, fmt.Errorf("failed to prune flow %s: %w", path, err)
			}
			result.Pruned++
		}
	}

	result.Duration = time.Since(start)

	w.logger.Info("discovery completed",
		"flows_total", result.FlowsTotal,
		"pruned", result.Pruned,
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// DeleteFlow removes a flow's file (when tracked) and its store record.
func (w *Workspace) DeleteFlow(name string) error {
	pf, err := w.store.GetFlowByName(name)
	if err != nil {
		return err
	}
	if pf == nil {
		return fmt.Errorf("flow not found: %s", name)
	}

	if pf.FilePath != "" {
		if err := os.Remove(pf.FilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove flow file: %w", err)
		}
	}

	return w.store.DeleteFlowByName(name)
}

// computeHash returns the hex SHA-256 of file content, for change detection.
func computeHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
