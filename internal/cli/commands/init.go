package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flowdeck-labs/flowdeck/internal/cli/output"
	intconfig "github.com/flowdeck-labs/flowdeck/internal/config"
)

const initConfigTemplate = `# Flowdeck project configuration
flows_dir: flows

catalog:
  base_url: %s

# taps:
#   - name: acme
#     url: https://taps.acme.dev
`

const initExampleFlow = `name: hello
description: A starter flow
provider: openrouter
model: anthropic/claude-sonnet
mcp_servers: []
`

const initGitignore = `flowdeck.db
flowdeck.db-*
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Flowdeck project",
		Long: `Initialize a new Flowdeck project with default structure and configuration.

This creates:
  - flows/ directory with a starter flow
  - flowdeck.yaml configuration file
  - .gitignore entry for the local state database`,
		Example: `  # Initialize in current directory
  flowdeck init

  # Initialize in a new directory
  flowdeck init my-project

  # Force overwrite existing config
  flowdeck init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	files := map[string]string{
		configPath: fmt.Sprintf(initConfigTemplate, intconfig.DefaultCatalogBaseURL),
		filepath.Join(dir, "flows", "hello.yaml"): initExampleFlow,
		filepath.Join(dir, ".gitignore"):          initGitignore,
	}

	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.Printf("created %s\n", path)
	}

	r.Println("")
	r.Println("Flowdeck project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit flows/hello.yaml or create new flows")
	r.Println("  2. Run 'flowdeck list' to see your flows")
	r.Println("  3. Run 'flowdeck ui' to open the workbench")

	return nil
}
