package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimentellima/mockdata-server/internal/config"
)

func newTestClient(baseURL string) *OpenAIClient {
	return NewOpenAIClient(&config.Config{
		OpenAIAPIKey:  "sk-test",
		OpenAIModel:   "gpt-4o-mini",
		OpenAIBaseURL: baseURL,
	})
}

func TestGenerate(t *testing.T) {
	t.Run("parses structured output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "gpt-4o-mini", req["model"])

			content := `{"results":[{"name":"User","jsonArray":"[{\"id\":1}]","typeDefinition":"interface User { id: number }"}]}`
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": content}},
				},
			})
		}))
		defer server.Close()

		entries, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "User", entries[0].Name)
		assert.Equal(t, `[{"id":1}]`, entries[0].JSONArray)
	})

	t.Run("fails on non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
		assert.Error(t, err)
	})

	t.Run("fails on malformed content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "not json"}},
				},
			})
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
		assert.Error(t, err)
	})

	t.Run("fails on empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
		assert.Error(t, err)
	})
}
