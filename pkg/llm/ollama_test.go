package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClient_Generate(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3.1:8b","response":"SELECT 1","done":true}`))
	}))
	defer server.Close()

	client := NewOllamaClient(Config{Endpoint: server.URL + "/", Model: "llama3.1:8b", ContextWindow: 4096})
	out, err := client.Generate(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", out)

	assert.Equal(t, "llama3.1:8b", got["model"])
	assert.Equal(t, "question", got["prompt"])
	assert.Equal(t, false, got["stream"])
	options := got["options"].(map[string]any)
	assert.Equal(t, 0.0, options["temperature"])
	assert.Equal(t, 4096.0, options["num_ctx"])
}

func TestNewOllamaClient_Defaults(t *testing.T) {
	client := NewOllamaClient(Config{})
	assert.Equal(t, "llama3.1:8b", client.Model())
	assert.Equal(t, "http://localhost:11434", client.Endpoint())

	client = NewOllamaClient(Config{Endpoint: "http://gpu-box:11434///", Model: "mistral"})
	assert.Equal(t, "mistral", client.Model())
	assert.Equal(t, "http://gpu-box:11434", client.Endpoint())
}

func TestOllamaClient_OmitsContextWindow(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"response":"SELECT 2"}`))
	}))
	defer server.Close()

	_, err := NewOllamaClient(Config{Endpoint: server.URL}).Generate(context.Background(), "q")
	require.NoError(t, err)
	_, present := got["options"].(map[string]any)["num_ctx"]
	assert.False(t, present)
}

func TestOllamaClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			wantMsg: "status 404",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			wantMsg: "failed to decode response",
		},
		{
			name: "error field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error":"out of memory"}`))
			},
			wantMsg: "out of memory",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			},
			wantMsg: "ollama request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewOllamaClient(Config{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
			_, err := client.Generate(context.Background(), "q")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOllamaClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewOllamaClient(Config{Endpoint: url}).Generate(context.Background(), "q")
	assert.Error(t, err)
}
