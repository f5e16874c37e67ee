package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowdeck-labs/flowdeck/internal/mcp"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// NewInstallCommand creates the install command for MCP servers.
func NewInstallCommand() *cobra.Command {
	var (
		command string
		cmdArgs []string
		envVars []string
		url     string
	)

	cmd := &cobra.Command{
		Use:   "install <server-name>",
		Short: "Install an MCP server",
		Long: `Install an MCP server into the project's mcp_servers.json and record it
in the state store. Flows declaring the server as a dependency show it as
installed afterwards.

Either --command or --url is required.`,
		Example: `  # Install a stdio server
  flowdeck install fetch --command uvx --args mcp-server-fetch

  # Install with environment variables
  flowdeck install github --command npx --args -y,@modelcontextprotocol/server-github --env GITHUB_TOKEN=xyz

  # Install a remote server
  flowdeck install search --url https://mcp.example.com/search`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			env, err := parseEnvVars(envVars)
			if err != nil {
				return err
			}

			server := &core.MCPServer{
				Name:    args[0],
				Command: command,
				Args:    cmdArgs,
				Env:     env,
				URL:     url,
			}

			installer := mcp.NewInstaller(cmdCtx.Workspace.Store(), cmdCtx.Cfg.ProjectRoot, cmdCtx.Logger)
			if err := installer.Install(server); err != nil {
				return err
			}

			cmdCtx.Renderer.Printf("installed %s (%s)\n", server.Name, installer.ConfigPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "Command to launch the server")
	cmd.Flags().StringSliceVar(&cmdArgs, "args", nil, "Arguments for the server command")
	cmd.Flags().StringSliceVar(&envVars, "env", nil, "Environment variables as KEY=VALUE")
	cmd.Flags().StringVar(&url, "url", "", "URL of a remote server")

	return cmd
}

func parseEnvVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid env var %q: expected KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}
