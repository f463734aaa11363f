package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pyansys-rag/internal/secrets"
	"github.com/pdiddy/pyansys-rag/pkg/types"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	v := viper.New()
	setDefaults(v)

	got := loadConfig(v, secrets.Store{})
	assert.Equal(t, types.DefaultPipelineConfig(), got)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	t.Setenv("PYANSYS_RAG_GENERATION_MODEL", "llama3.2")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PYANSYS_RAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
search:
  provider: searxng
  searxng_url: http://localhost:8888
  num_results: 3
fetch:
  timeout: 5s
  insecure_skip_verify: false
generation:
  backend: gemini
`)))

	got := loadConfig(v, secrets.Store{secrets.GeminiAPIKey: "from-secrets"})

	assert.Equal(t, types.ProviderSearXNG, got.Search.Provider)
	assert.Equal(t, "http://localhost:8888", got.Search.SearXNGURL)
	assert.Equal(t, 3, got.Search.NumResults)
	assert.Equal(t, 5*time.Second, got.Fetch.Timeout)
	assert.False(t, got.Fetch.InsecureSkipVerify)
	assert.Equal(t, types.DefaultBrowserUA, got.Fetch.UserAgent)
	assert.Equal(t, types.BackendGemini, got.Generation.Backend)
	assert.Equal(t, "llama3.2", got.Generation.Model)
	assert.Equal(t, "from-secrets", got.Generation.APIKey)
}

func TestLoadConfig_ConfiguredKeyWins(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("generation.api_key", "from-config")

	got := loadConfig(v, secrets.Store{secrets.GeminiAPIKey: "from-secrets"})
	assert.Equal(t, "from-config", got.Generation.APIKey)
}

func TestBuildPipeline(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	p, err := buildPipeline(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, p)

	cfg.Search.Provider = "bing"
	_, err = buildPipeline(cfg, zap.NewNop())
	assert.ErrorContains(t, err, `unknown search provider "bing"`)

	cfg = types.DefaultPipelineConfig()
	cfg.Generation.Backend = "openai"
	_, err = buildPipeline(cfg, zap.NewNop())
	assert.ErrorContains(t, err, `unknown chat backend "openai"`)
}

func TestWriteState(t *testing.T) {
	st := types.NewState("q", 5)
	st.FetchedSources = []types.FetchedSource{{Title: "Doc", URL: "https://d.example", Content: "c", FromSnippet: true}}
	st.Answer = "Fix it.\n\nThis is the fix."

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeState(&buf, st, "text"))
		assert.Equal(t, "Fix it.\n\nThis is the fix.\n\nSources:\n1. Doc - https://d.example\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeState(&buf, st, "json"))
		var got types.State
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, st, got)
		assert.Contains(t, buf.String(), `"from_snippet": true`)
		assert.NotContains(t, buf.String(), `"error"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeState(&buf, st, "yaml"))
		var got types.State
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, st, got)
	})

	t.Run("empty answer", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeState(&buf, types.NewState("q", 5), "text"))
		assert.Equal(t, "No answer generated.\n\nSources: none\n", buf.String())
	})
}
