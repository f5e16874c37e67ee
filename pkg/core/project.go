package core

// ProjectConfig holds project-level configuration.
type ProjectConfig struct {
	FlowsDir string         `koanf:"flows_dir"`
	Catalog  *CatalogConfig `koanf:"catalog"`
	Taps     []TapConfig    `koanf:"taps"`
}

// CatalogConfig holds provider model catalog configuration.
type CatalogConfig struct {
	// BaseURL is the catalog endpoint base (e.g. "https://models.flowdeck.dev")
	BaseURL string `koanf:"base_url"`
	// TimeoutSeconds bounds a single catalog fetch (0 uses the default)
	TimeoutSeconds int `koanf:"timeout_seconds"`
}

// TapConfig declares a tap in the project config file.
type TapConfig struct {
	Name string `koanf:"name"`
	URL  string `koanf:"url"`
}
