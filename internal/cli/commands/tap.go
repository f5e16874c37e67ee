package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck-labs/flowdeck/internal/cli/output"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// NewTapCommand creates the tap command group.
func NewTapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Manage flow taps",
		Long: `Manage taps: named external collections of installable flows.

A tap serves an index.yaml listing its flows plus the flow files
themselves. Flows installed from a tap carry a "tap:<name>" source.`,
	}

	cmd.AddCommand(newTapAddCommand())
	cmd.AddCommand(newTapRemoveCommand())
	cmd.AddCommand(newTapListCommand())
	cmd.AddCommand(newTapInstallCommand())

	return cmd
}

func newTapAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Register a tap",
		Example: `  # Register a tap
  flowdeck tap add acme https://taps.acme.dev`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			taps, err := cmdCtx.TapManager()
			if err != nil {
				return err
			}

			index, err := taps.Add(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			cmdCtx.Renderer.Printf("added tap %s (%d flows)\n", args[0], len(index.Flows))
			return nil
		},
	}
}

func newTapRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a tap",
		Long:  `Remove a tap registration. Flows installed from it stay in place.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			taps, err := cmdCtx.TapManager()
			if err != nil {
				return err
			}

			if err := taps.Remove(args[0]); err != nil {
				return err
			}

			cmdCtx.Renderer.Printf("removed tap %s\n", args[0])
			return nil
		},
	}
}

func newTapListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered taps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, err := cmdCtx.TapManager()
			if err != nil {
				return err
			}

			taps, err := mgr.List()
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return tapListJSON(r, taps)
			}

			rows := make([][]string, 0, len(taps))
			for _, t := range taps {
				rows = append(rows, []string{t.Name, t.URL, t.AddedAt.Format(time.RFC3339)})
			}
			r.Table([]string{"NAME", "URL", "ADDED"}, rows)
			return nil
		},
	}
}

func tapListJSON(r *output.Renderer, taps []*core.Tap) error {
	type tapOut struct {
		Name    string    `json:"name"`
		URL     string    `json:"url"`
		AddedAt time.Time `json:"added_at"`
	}
	out := make([]tapOut, 0, len(taps))
	for _, t := range taps {
		out = append(out, tapOut{Name: t.Name, URL: t.URL, AddedAt: t.AddedAt})
	}
	return r.JSON(out)
}

func newTapInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <tap> <flow>",
		Short: "Install a flow from a tap",
		Example: `  # Install a flow from a registered tap
  flowdeck tap install acme research/summarize`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			taps, err := cmdCtx.TapManager()
			if err != nil {
				return err
			}

			pf, err := taps.Install(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			version := pf.Version
			if version == "" {
				version = "unversioned"
			}
			cmdCtx.Renderer.Printf("installed %s %s from tap %s\n", pf.Name, version, args[0])
			return nil
		},
	}
}
