package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pyansys-rag/internal/fetch"
	"github.com/pdiddy/pyansys-rag/internal/generate"
	"github.com/pdiddy/pyansys-rag/internal/llm"
	"github.com/pdiddy/pyansys-rag/internal/pipeline"
	"github.com/pdiddy/pyansys-rag/internal/search"
	"github.com/pdiddy/pyansys-rag/internal/secrets"
	"github.com/pdiddy/pyansys-rag/pkg/types"
)

// setDefaults registers the built-in configuration on v so that file,
// environment, and flag values layer over it.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()

	v.SetDefault("search.provider", string(d.Search.Provider))
	v.SetDefault("search.num_results", d.Search.NumResults)
	v.SetDefault("search.searxng_url", d.Search.SearXNGURL)
	v.SetDefault("search.max_retries", d.Search.MaxRetries)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.user_agent", d.Search.UserAgent)

	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.insecure_skip_verify", d.Fetch.InsecureSkipVerify)

	v.SetDefault("generation.backend", string(d.Generation.Backend))
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.ollama_url", d.Generation.OllamaURL)
	v.SetDefault("generation.api_key", "")
}

// loadConfig reads the effective pipeline configuration from v. The Gemini
// API key falls back to the secrets store when not configured.
func loadConfig(v *viper.Viper, s secrets.Store) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("search.timeout"),
				UserAgent: v.GetString("search.user_agent"),
			},
			Provider:   types.SearchProvider(v.GetString("search.provider")),
			NumResults: v.GetInt("search.num_results"),
			SearXNGURL: v.GetString("search.searxng_url"),
			MaxRetries: v.GetInt("search.max_retries"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("fetch.timeout"),
				UserAgent: v.GetString("fetch.user_agent"),
			},
			InsecureSkipVerify: v.GetBool("fetch.insecure_skip_verify"),
		},
		Generation: types.GenerationConfig{
			AIConfig: types.AIConfig{
				Backend: types.ChatBackend(v.GetString("generation.backend")),
				Model:   v.GetString("generation.model"),
				APIKey:  v.GetString("generation.api_key"),
			},
			OllamaURL: v.GetString("generation.ollama_url"),
		},
	}
	if cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = s.Get(secrets.GeminiAPIKey)
	}
	return cfg
}

// buildPipeline wires the stages described by cfg.
func buildPipeline(cfg types.PipelineConfig, log *zap.Logger) (*pipeline.Pipeline, error) {
	provider, err := search.NewProvider(cfg.Search)
	if err != nil {
		return nil, err
	}
	factory, err := llm.NewFactory(cfg.Generation)
	if err != nil {
		return nil, err
	}

	return pipeline.New(
		&search.Stage{Provider: provider, Logger: log},
		&fetch.Stage{
			Getter:    fetch.NewHTTPGetter(cfg.Fetch, log),
			Extractor: fetch.Readability{},
			Logger:    log,
		},
		&generate.Stage{Factory: factory, Model: cfg.Generation.Model, Logger: log},
		pipeline.WithLogger(log),
	), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration the pipeline would run with after
merging defaults, the config file, and PYANSYS_RAG_* environment variables.
The API key is masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(viper.GetViper(), loadedSecrets)
		if cfg.Generation.APIKey != "" {
			cfg.Generation.APIKey = "********"
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
