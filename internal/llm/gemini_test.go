package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction"`
}

// newGeminiServer serves generateContent with body and records the request.
func newGeminiServer(t *testing.T, body string) (*geminiRequest, *string) {
	t.Helper()
	var got geminiRequest
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	orig := geminiBaseURL
	geminiBaseURL = ts.URL + "/"
	t.Cleanup(func() { geminiBaseURL = orig })
	return &got, &gotPath
}

func TestGeminiClient_Chat(t *testing.T) {
	got, gotPath := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Restart the solver."}]},"finishReason":"STOP"}]}`)

	c, err := NewGeminiClient(context.Background(), "test-key")
	require.NoError(t, err)
	defer c.Close()

	reply, err := c.Chat(context.Background(), "gemini-2.0-flash", []Message{
		{Role: RoleSystem, Content: "You are a PyAnsys troubleshooting assistant."},
		{Role: RoleUser, Content: "Question: MAPDL fails"},
		{Role: "assistant", Content: "Earlier reply"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Restart the solver.", reply)

	assert.True(t, strings.HasSuffix(*gotPath, "models/gemini-2.0-flash:generateContent"), *gotPath)

	require.NotNil(t, got.SystemInstruction)
	require.Len(t, got.SystemInstruction.Parts, 1)
	assert.Equal(t, "You are a PyAnsys troubleshooting assistant.", got.SystemInstruction.Parts[0].Text)

	require.Len(t, got.Contents, 2, "the system message is not sent as a turn")
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, []geminiPart{{Text: "Question: MAPDL fails"}}, got.Contents[0].Parts)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, []geminiPart{{Text: "Earlier reply"}}, got.Contents[1].Parts)
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	newGeminiServer(t, `{"candidates":[]}`)

	c, err := NewGeminiClient(context.Background(), "test-key")
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Chat(context.Background(), "gemini-2.0-flash", []Message{{Role: RoleUser, Content: "q"}})
	assert.ErrorContains(t, err, "GenAI returned no candidates")
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "")
	assert.EqualError(t, err, "gemini API key is required")
}
