package commands

import (
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a flow",
		Long:  `Delete a flow's definition file and its state record.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			// Sync the store first so flows not yet discovered can be
			// deleted by name.
			if _, err := cmdCtx.Workspace.Discover(); err != nil {
				return err
			}

			if err := cmdCtx.Workspace.DeleteFlow(args[0]); err != nil {
				return err
			}

			cmdCtx.Renderer.Printf("deleted flow %s\n", args[0])
			return nil
		},
	}
}
