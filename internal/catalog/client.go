// Package catalog fetches provider model listings for the model picker.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// DefaultTimeout bounds a single catalog fetch.
const DefaultTimeout = 10 * time.Second

// Client fetches model listings from a catalog endpoint.
// One fetch per dialog open; there is no caching, retry, or backoff.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client for the given base URL.
// A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchModels retrieves the model listing for a provider.
// Failures are reported as plain errors suitable for user display.
func (c *Client) FetchModels(ctx context.Context, provider string) ([]core.ModelInfo, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	endpoint := fmt.Sprintf("%s/api/v1/models/%s", c.baseURL, url.PathEscape(provider))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch models for %s: %w", provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned %s for provider %s", resp.Status, provider)
	}

	var list core.ModelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode model listing: %w", err)
	}

	return list.Data, nil
}
