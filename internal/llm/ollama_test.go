package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClient_Chat(t *testing.T) {
	var got ollamaChatRequest
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"gemma2:2b","message":{"role":"assistant","content":"Restart the solver."},"done":true}`)
	}))
	defer ts.Close()

	c := NewOllamaClient(ts.URL + "/")
	defer c.Close()

	reply, err := c.Chat(context.Background(), "gemma2:2b", []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "usr"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Restart the solver.", reply)
	assert.Equal(t, "/api/chat", gotPath)
	assert.Equal(t, "gemma2:2b", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "usr"}}, got.Messages)
}

func TestOllamaClient_EmptyReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer ts.Close()

	reply, err := NewOllamaClient(ts.URL).Chat(context.Background(), "m", nil)
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestOllamaClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"missing message", http.StatusOK, `{"done":true}`, "no message"},
		{"api error field", http.StatusOK, `{"error":"model \"x\" not found"}`, `ollama: model "x" not found`},
		{"http status", http.StatusNotFound, `model not found`, "ollama API error 404: model not found"},
		{"bad json", http.StatusOK, `{`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			_, err := NewOllamaClient(ts.URL).Chat(context.Background(), "m", nil)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestOllamaClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewOllamaClient(url)
	_, err := c.Chat(context.Background(), "m", nil)
	assert.ErrorContains(t, err, "ollama request failed")
	assert.NoError(t, c.Close())
}

func TestNewOllamaClient_DefaultURL(t *testing.T) {
	c := NewOllamaClient("")
	assert.Equal(t, "http://localhost:11434", c.baseURL)
	assert.Zero(t, c.httpClient.Timeout)
}
