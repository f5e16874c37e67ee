package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/flowdeck-labs/flowdeck/internal/cli/config"
	"github.com/flowdeck-labs/flowdeck/internal/ui"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the Flowdeck workbench UI",
		Long: `Start a local web server providing the flow workbench.

The UI provides:
- Flow navigator with filtering and collection grouping
- MCP server dependency panel with one-click installs
- Provider model catalog browsing and selection`,
		Example: `  # Start UI on default port
  flowdeck ui

  # Start on custom port
  flowdeck ui --port 3000

  # Start without auto-opening browser
  flowdeck ui --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 4400)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch for flow file changes")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	uiCfg := cmdCtx.Cfg.GetUIConfig()

	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	fmt.Println("Discovering flows...")
	if _, err := cmdCtx.Workspace.Discover(); err != nil {
		return fmt.Errorf("discover failed: %w", err)
	}

	baseURL := ""
	if cmdCtx.Cfg.Catalog != nil {
		baseURL = cmdCtx.Cfg.Catalog.BaseURL
	}

	server := ui.NewServer(ui.Config{
		Workspace:      cmdCtx.Workspace,
		Port:           port,
		Watch:          watch,
		SessionSecret:  sessionSecret(),
		CatalogBaseURL: baseURL,
		CatalogTimeout: catalogTimeout(cmdCtx.Cfg),
		ProjectRoot:    cmdCtx.Cfg.ProjectRoot,
		Logger:         config.GetLogger(cmd.Context()),
	})

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Printf("Starting UI server on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// sessionSecret returns the cookie session secret.
func sessionSecret() string {
	secret := os.Getenv("FLOWDECK_SESSION_SECRET")
	if secret == "" {
		// Default secret for local development.
		secret = "flowdeck-dev-secret-change-in-production" //nolint:gosec
	}
	return secret
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
