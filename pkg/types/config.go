package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchProvider identifies the web search backend.
type SearchProvider string

const (
	ProviderDuckDuckGo SearchProvider = "duckduckgo"
	ProviderSearXNG    SearchProvider = "searxng"
)

// SearchConfig holds settings for the web search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the search backend (default duckduckgo).
	Provider SearchProvider `json:"provider" yaml:"provider"`

	// NumResults is the number of results requested per query (default 5).
	NumResults int `json:"num_results" yaml:"num_results"`

	// SearXNGURL is the root URL of a SearXNG instance, used when Provider is searxng.
	SearXNGURL string `json:"searxng_url,omitempty" yaml:"searxng_url,omitempty"`

	// MaxRetries bounds retries on HTTP 429 from the provider (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetchConfig holds settings for the source fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// InsecureSkipVerify disables TLS certificate verification for page fetches.
	InsecureSkipVerify bool `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// ChatBackend identifies the language model service.
type ChatBackend string

const (
	BackendOllama ChatBackend = "ollama"
	BackendGemini ChatBackend = "gemini"
)

// AIConfig holds shared settings for stages that call a language model.
type AIConfig struct {
	// Backend selects the chat service: ollama or gemini.
	Backend ChatBackend `json:"backend" yaml:"backend"`

	// Model is the model identifier (e.g. "gemma2:2b").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for hosted backends.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// GenerationConfig holds settings for the answer generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// OllamaURL is the base URL of the Ollama server.
	OllamaURL string `json:"ollama_url" yaml:"ollama_url"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
}

// Default values applied by DefaultPipelineConfig.
const (
	DefaultNumResults   = 5
	DefaultFetchTimeout = 15 * time.Second
	DefaultModel        = "gemma2:2b"
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultBrowserUA    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// DefaultPipelineConfig returns the configuration used when nothing is
// overridden by file, environment, or flags.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: DefaultBrowserUA,
			},
			Provider:   ProviderDuckDuckGo,
			NumResults: DefaultNumResults,
			MaxRetries: 5,
		},
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultFetchTimeout,
				UserAgent: DefaultBrowserUA,
			},
			InsecureSkipVerify: true,
		},
		Generation: GenerationConfig{
			AIConfig: AIConfig{
				Backend: BackendOllama,
				Model:   DefaultModel,
			},
			OllamaURL: DefaultOllamaURL,
		},
	}
}
