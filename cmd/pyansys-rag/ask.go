package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pyansys-rag/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Answer a single question and exit",
	Long: `Ask runs one question through the pipeline and prints the final state.
The text format prints the answer and its sources; json and yaml print the
whole state, including search results and any error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "text" && format != "json" && format != "yaml" {
			return fmt.Errorf("unknown format %q (valid: text, json, yaml)", format)
		}

		cfg := loadConfig(viper.GetViper(), loadedSecrets)
		if n, _ := cmd.Flags().GetInt("num-results"); n > 0 {
			cfg.Search.NumResults = n
		}
		p, err := buildPipeline(cfg, logger)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		final := p.Invoke(cmd.Context(), query, cfg.Search.NumResults)
		return writeState(cmd.OutOrStdout(), final, format)
	},
}

func init() {
	askCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	askCmd.Flags().Int("num-results", 0, "search results requested (default from config)")
	rootCmd.AddCommand(askCmd)
}

// writeState prints the final state in the requested format.
func writeState(w io.Writer, st types.State, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		out, err := yaml.Marshal(st)
		if err != nil {
			return fmt.Errorf("encoding state: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		answer := strings.TrimSpace(st.Answer)
		if answer == "" {
			answer = "No answer generated."
		}
		fmt.Fprintln(w, answer)
		fmt.Fprintln(w)
		printSources(w, st.FetchedSources)
		return nil
	}
}
