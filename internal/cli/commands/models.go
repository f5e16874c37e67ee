package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/flowdeck-labs/flowdeck/internal/catalog"
	"github.com/flowdeck-labs/flowdeck/internal/cli/output"
	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// NewModelsCommand creates the models command.
func NewModelsCommand() *cobra.Command {
	var filter string
	var setFlow string

	cmd := &cobra.Command{
		Use:   "models <provider>",
		Short: "Browse a provider's model catalog",
		Long: `Fetch and display the model catalog for a provider.

Use --filter to narrow results by a case-insensitive substring of the
model name or ID. Use --set to assign a model ID to a flow directly.`,
		Example: `  # List all models for a provider
  flowdeck models openrouter

  # Filter by substring
  flowdeck models openrouter --filter sonnet

  # Assign a model to a flow
  flowdeck models openrouter --set triage=anthropic/claude-sonnet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(cmd, args[0], filter, setFlow)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Filter models by name or ID substring")
	cmd.Flags().StringVar(&setFlow, "set", "", "Assign a model to a flow as <flow>=<model-id>")

	return cmd
}

func runModels(cmd *cobra.Command, provider, filter, setFlow string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if setFlow != "" {
		return runModelsSet(cmdCtx, provider, setFlow)
	}

	models, err := cmdCtx.CatalogClient().FetchModels(cmd.Context(), provider)
	if err != nil {
		return err
	}
	models = catalog.FilterModels(models, filter)

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(models)
	}

	r.Header(fmt.Sprintf("%s models (%d)", provider, len(models)))

	rows := make([][]string, 0, len(models))
	for _, m := range models {
		rows = append(rows, []string{
			m.ID,
			m.Name,
			formatPricing(m.Pricing),
			formatTokens(m.ContextLength),
			formatTokens(m.MaxOutputTokens),
		})
	}
	r.Table([]string{"ID", "NAME", "PRICING ($/MTOK IN/OUT)", "CONTEXT", "MAX OUT"}, rows)
	return nil
}

func runModelsSet(cmdCtx *CommandContext, provider, setFlow string) error {
	flowName, modelID, ok := cutAssignment(setFlow)
	if !ok {
		return fmt.Errorf("invalid --set value %q: expected <flow>=<model-id>", setFlow)
	}

	if _, err := cmdCtx.Workspace.Discover(); err != nil {
		return err
	}

	if err := cmdCtx.Workspace.SetFlowModel(flowName, provider, modelID); err != nil {
		return err
	}

	cmdCtx.Renderer.Printf("set %s model to %s (%s)\n", flowName, modelID, provider)
	return nil
}

func cutAssignment(s string) (left, right string, ok bool) {
	for i := range s {
		if s[i] == '=' {
			return s[:i], s[i+1:], s[:i] != "" && s[i+1:] != ""
		}
	}
	return "", "", false
}

func formatPricing(p *core.ModelPricing) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f / %.2f", p.Prompt, p.Completion)
}

func formatTokens(n int) string {
	if n <= 0 {
		return "-"
	}
	if n >= 1000 && n%1000 == 0 {
		return strconv.Itoa(n/1000) + "k"
	}
	return strconv.Itoa(n)
}
