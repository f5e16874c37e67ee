// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck-labs/flowdeck/internal/flow"
	"github.com/flowdeck-labs/flowdeck/internal/testutil"
	"github.com/flowdeck-labs/flowdeck/internal/ui/notifier"
	"github.com/flowdeck-labs/flowdeck/internal/workspace"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// TestFlow is a helper to create test flows with minimal boilerplate.
type TestFlow struct {
	Name        string
	Source      string
	Collection  string
	Description string
	Provider    string
	Model       string
	Version     string
	Servers     []string
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Workspace    *workspace.Workspace
	Store        core.Store
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore

	ProjectDir string
	FlowsDir   string
}

// SetupTestFixture creates a workspace over a temp flows directory with an
// in-memory store, writes the given flows, and discovers them.
func SetupTestFixture(t *testing.T, flows ...TestFlow) *TestFixture {
	t.Helper()

	projectDir := t.TempDir()
	flowsDir := filepath.Join(projectDir, "flows")
	require.NoError(t, os.MkdirAll(flowsDir, 0750))

	for _, f := range flows {
		content := buildFlowFile(f)
		path := filepath.Join(flowsDir, flow.FileName(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}

	ws, err := workspace.New(workspace.Config{
		FlowsDir:  flowsDir,
		StatePath: ":memory:",
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	_, err = ws.Discover()
	require.NoError(t, err)

	return &TestFixture{
		Workspace:    ws,
		Store:        ws.Store(),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		ProjectDir:   projectDir,
		FlowsDir:     flowsDir,
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// buildFlowFile creates flow YAML file content.
func buildFlowFile(f TestFlow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name: %s\n", f.Name)
	if f.Source != "" {
		fmt.Fprintf(&b, "source: %q\n", f.Source)
	}
	if f.Collection != "" {
		fmt.Fprintf(&b, "collection: %s\n", f.Collection)
	}
	if f.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", f.Description)
	}
	if f.Provider != "" {
		fmt.Fprintf(&b, "provider: %s\n", f.Provider)
	}
	if f.Model != "" {
		fmt.Fprintf(&b, "model: %s\n", f.Model)
	}
	if f.Version != "" {
		fmt.Fprintf(&b, "version: %q\n", f.Version)
	}
	if len(f.Servers) > 0 {
		b.WriteString("mcp_servers:\n")
		for _, s := range f.Servers {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	return b.String()
}
