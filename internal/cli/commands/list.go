package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowdeck-labs/flowdeck/internal/cli/output"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var checkUpgrades bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all flows",
		Long: `List all discovered flows with their source, collection, and model.

Output adapts to environment:
  - Terminal: styled table
  - Piped/Scripted: markdown table

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all flows
  flowdeck list

  # List flows as JSON
  flowdeck list --output json

  # Also check taps for newer flow versions
  flowdeck list --check-upgrades`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, checkUpgrades)
		},
	}

	cmd.Flags().BoolVar(&checkUpgrades, "check-upgrades", false, "Check taps for newer flow versions")

	return cmd
}

func runList(cmd *cobra.Command, checkUpgrades bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := cmdCtx.Workspace.Discover(); err != nil {
		return fmt.Errorf("failed to discover flows: %w", err)
	}

	flows, err := cmdCtx.Workspace.Store().ListFlows()
	if err != nil {
		return err
	}

	upgradable := map[string]string{}
	if checkUpgrades {
		taps, err := cmdCtx.TapManager()
		if err != nil {
			return err
		}
		upgrades, err := taps.Upgrades(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range upgrades {
			upgradable[u.Flow.Name] = u.Available
		}
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return listJSON(r, flows, upgradable)
	}
	listTable(r, flows, upgradable)
	return nil
}

func listTable(r *output.Renderer, flows []*core.PersistedFlow, upgradable map[string]string) {
	r.Header(fmt.Sprintf("Flows (%d total)", len(flows)))

	rows := make([][]string, 0, len(flows))
	for _, f := range flows {
		version := f.Version
		if avail, ok := upgradable[f.Name]; ok {
			version = fmt.Sprintf("%s (%s available)", f.Version, avail)
		}
		rows = append(rows, []string{
			f.Name,
			string(f.Source),
			f.CollectionName(),
			f.Model,
			version,
			strings.Join(f.RequiredServers, ", "),
		})
	}

	r.Table([]string{"NAME", "SOURCE", "COLLECTION", "MODEL", "VERSION", "SERVERS"}, rows)
}

func listJSON(r *output.Renderer, flows []*core.PersistedFlow, upgradable map[string]string) error {
	type flowOut struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Source     string   `json:"source"`
		Collection string   `json:"collection,omitempty"`
		Model      string   `json:"model,omitempty"`
		Provider   string   `json:"provider,omitempty"`
		Version    string   `json:"version,omitempty"`
		Servers    []string `json:"mcp_servers,omitempty"`
		Upgrade    string   `json:"upgrade_available,omitempty"`
	}

	out := make([]flowOut, 0, len(flows))
	for _, f := range flows {
		out = append(out, flowOut{
			ID:         f.ID,
			Name:       f.Name,
			Source:     string(f.Source),
			Collection: f.CollectionName(),
			Model:      f.Model,
			Provider:   f.Provider,
			Version:    f.Version,
			Servers:    f.RequiredServers,
			Upgrade:    upgradable[f.Name],
		})
	}
	return r.JSON(out)
}
