package commands

import (
	"github.com/spf13/cobra"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new local flow",
		Long: `Create a new local flow definition file and register it.

Namespaced names like "research/summarize" create a subdirectory and
group the flow into the "research" collection.`,
		Example: `  # Create a flow
  flowdeck create triage

  # Create a namespaced flow with a description
  flowdeck create research/summarize --description "Summarize papers"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			pf, err := cmdCtx.Workspace.CreateFlow(args[0], description)
			if err != nil {
				return err
			}

			cmdCtx.Renderer.Printf("created flow %s at %s\n", pf.Name, pf.FilePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Flow description")

	return cmd
}
