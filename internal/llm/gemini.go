package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/pdiddy/pyansys-rag/internal/httputil"
)

// geminiBaseURL overrides the Gemini API endpoint when set. Tests point it
// at an httptest server.
var geminiBaseURL = ""

// GeminiClient sends chats to the Gemini API. System messages become the
// system instruction; the remaining messages become user or model turns.
type GeminiClient struct {
	client     *genai.Client
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini client authenticated with apiKey.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	hc := httputil.NewClient(httputil.WithTimeout(0))
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  hc,
		HTTPOptions: genai.HTTPOptions{BaseURL: geminiBaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, httpClient: hc}, nil
}

// Chat calls GenerateContent and returns the concatenated reply text.
func (g *GeminiClient) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	var cfg genai.GenerateContentConfig
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			cfg.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case RoleUser:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, &cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("GenAI returned no candidates")
	}
	return result.Text(), nil
}

// Close releases idle connections to the Gemini API.
func (g *GeminiClient) Close() error {
	g.httpClient.CloseIdleConnections()
	return nil
}
