package tap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/flowdeck-labs/flowdeck/internal/workspace"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// Manager ties the tap client to the local workspace and state store. It
// handles tap registration, flow installs, and upgrade detection.
type Manager struct {
	client *Client
	ws     *workspace.Workspace
	store  core.Store
	logger *slog.Logger
}

// NewManager creates a tap manager over the given workspace.
func NewManager(client *Client, ws *workspace.Workspace, logger *slog.Logger) *Manager {
	return &Manager{
		client: client,
		ws:     ws,
		store:  ws.Store(),
		logger: logger,
	}
}

// Add registers a tap and verifies it by fetching its index.
func (m *Manager) Add(ctx context.Context, name, url string) (*core.TapIndex, error) {
	if name == "" || url == "" {
		return nil, fmt.Errorf("tap name and URL are required")
	}
	if name == StoreName {
		return nil, fmt.Errorf("tap name %q is reserved", StoreName)
	}

	t := &core.Tap{Name: name, URL: url, AddedAt: time.Now().UTC()}
	index, err := m.client.FetchIndex(ctx, t)
	if err != nil {
		return nil, err
	}

	if err := m.store.SaveTap(t); err != nil {
		return nil, fmt.Errorf("failed to save tap: %w", err)
	}

	m.logger.Info("tap added", "name", name, "url", url, "flows", len(index.Flows))
	return index, nil
}

// SyncConfigured registers taps declared in the project config file that
// are not yet in the store. Config taps are trusted; they are not verified
// over the network here, so offline commands still work.
func (m *Manager) SyncConfigured(taps []core.TapConfig) error {
	for _, tc := range taps {
		if tc.Name == "" || tc.URL == "" || tc.Name == StoreName {
			continue
		}
		existing, err := m.store.GetTap(tc.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		t := &core.Tap{Name: tc.Name, URL: tc.URL, AddedAt: time.Now().UTC()}
		if err := m.store.SaveTap(t); err != nil {
			return fmt.Errorf("failed to register configured tap %s: %w", tc.Name, err)
		}
		m.logger.Debug("registered configured tap", "name", tc.Name, "url", tc.URL)
	}
	return nil
}

// Remove deletes a tap registration. Flows installed from it stay in place.
func (m *Manager) Remove(name string) error {
	return m.store.DeleteTap(name)
}

// List returns all registered taps.
func (m *Manager) List() ([]*core.Tap, error) {
	return m.store.ListTaps()
}

// Install fetches a named flow from a tap and writes it into the workspace.
func (m *Manager) Install(ctx context.Context, tapName, flowName string) (*core.PersistedFlow, error) {
	t, err := m.store.GetTap(tapName)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("tap %q is not registered", tapName)
	}

	index, err := m.client.FetchIndex(ctx, t)
	if err != nil {
		return nil, err
	}

	var entry *core.TapEntry
	for i := range index.Flows {
		if index.Flows[i].Name == flowName {
			entry = &index.Flows[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("flow %q not found in tap %q", flowName, tapName)
	}

	f, err := m.client.FetchFlow(ctx, t, *entry)
	if err != nil {
		return nil, err
	}

	installed, err := m.ws.InstallFlow(f)
	if err != nil {
		return nil, err
	}

	m.logger.Info("flow installed", "flow", f.Name, "tap", tapName, "version", f.Version)
	return installed, nil
}

// Upgrade holds an installed flow alongside the newer version a tap offers.
type Upgrade struct {
	Flow      *core.PersistedFlow
	TapName   string
	Available string
}

// Upgrades compares installed tap flows against their tap indexes and
// returns those with a strictly newer version available. Taps that cannot
// be reached are logged and skipped.
func (m *Manager) Upgrades(ctx context.Context) ([]Upgrade, error) {
	flows, err := m.store.ListFlows()
	if err != nil {
		return nil, err
	}

	byTap := make(map[string][]*core.PersistedFlow)
	for _, f := range flows {
		if !f.Source.IsTap() {
			continue
		}
		name := f.Source.TapName()
		byTap[name] = append(byTap[name], f)
	}

	var upgrades []Upgrade
	for tapName, installed := range byTap {
		t, err := m.store.GetTap(tapName)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}

		index, err := m.client.FetchIndex(ctx, t)
		if err != nil {
			m.logger.Warn("failed to fetch tap index", "tap", tapName, "error", err)
			continue
		}

		latest := make(map[string]string, len(index.Flows))
		for _, e := range index.Flows {
			latest[e.Name] = e.Version
		}

		for _, f := range installed {
			if newer(f.Version, latest[f.Name]) {
				upgrades = append(upgrades, Upgrade{Flow: f, TapName: tapName, Available: latest[f.Name]})
			}
		}
	}
	return upgrades, nil
}

// newer reports whether available is a strictly newer semver than current.
// Unparseable or missing versions never flag an upgrade.
func newer(current, available string) bool {
	if current == "" || available == "" {
		return false
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	avail, err := semver.NewVersion(available)
	if err != nil {
		return false
	}
	return avail.GreaterThan(cur)
}
