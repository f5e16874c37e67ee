package catalog

import (
	"strings"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// FilterModels returns the models whose name or identifier contains the
// query as a case-insensitive substring. An empty query returns the input
// unchanged.
func FilterModels(models []core.ModelInfo, query string) []core.ModelInfo {
	query = strings.TrimSpace(query)
	if query == "" {
		return models
	}

	q := strings.ToLower(query)
	filtered := make([]core.ModelInfo, 0, len(models))
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.ID), q) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
