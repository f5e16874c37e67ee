package core

// ModelPricing holds per-token costs as reported by a provider catalog.
type ModelPricing struct {
	// Prompt is the cost per prompt token
	Prompt float64 `json:"prompt"`
	// Completion is the cost per completion token
	Completion float64 `json:"completion"`
}

// ModelInfo describes a model available from a provider catalog.
// The identifier uniquely selects a model; everything else is display data.
type ModelInfo struct {
	// ID is the provider's model identifier (e.g. "gpt-4o-mini")
	ID string `json:"id"`
	// Name is the display name
	Name string `json:"name"`
	// Pricing is optional; nil when the catalog reports no costs
	Pricing *ModelPricing `json:"pricing,omitempty"`
	// ContextLength is the context window in tokens (0 when unknown)
	ContextLength int `json:"context_length,omitempty"`
	// MaxOutputTokens is the output token limit (0 when unknown)
	MaxOutputTokens int `json:"max_output_tokens,omitempty"`
}

// ModelList is the wire shape of a provider catalog listing.
type ModelList struct {
	Data []ModelInfo `json:"data"`
}
