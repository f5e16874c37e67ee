package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/models/openai", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{
					"id": "gpt-4o-mini",
					"name": "GPT-4o mini",
					"pricing": {"prompt": 0.00000015, "completion": 0.0000006},
					"context_length": 128000,
					"max_output_tokens": 16384
				},
				{"id": "gpt-4o", "name": "GPT-4o"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	models, err := c.FetchModels(context.Background(), "openai")
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, "gpt-4o-mini", models[0].ID)
	assert.Equal(t, 128000, models[0].ContextLength)
	require.NotNil(t, models[0].Pricing)
	assert.InDelta(t, 0.00000015, models[0].Pricing.Prompt, 1e-12)

	// Optional fields stay zero when absent
	assert.Nil(t, models[1].Pricing)
	assert.Zero(t, models[1].ContextLength)
}

func TestFetchModels_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.FetchModels(context.Background(), "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFetchModels_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.FetchModels(context.Background(), "openai")
	assert.Error(t, err)
}

func TestFetchModels_EmptyProvider(t *testing.T) {
	c := NewClient("http://localhost:0", 0)
	_, err := c.FetchModels(context.Background(), "")
	assert.Error(t, err)
}

func TestFetchModels_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, 0)
	_, err := c.FetchModels(ctx, "openai")
	assert.Error(t, err)
}
