// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pyansys-rag CLI. Without a
// subcommand it starts the interactive troubleshooting shell.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/pyansys-rag/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool

	logger        = zap.NewNop()
	loadedSecrets = secrets.Store{}
)

// rootCmd is the base command for the pyansys-rag CLI.
var rootCmd = &cobra.Command{
	Use:   "pyansys-rag",
	Short: "Answer PyAnsys troubleshooting questions from live web sources",
	Long: `pyansys-rag answers PyAnsys error and troubleshooting questions. Each
question is searched on the web, the top pages are fetched and reduced to
readable text, and a language model writes an answer grounded in them.

Run without arguments to start the interactive shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pyansys-rag.yaml or ~/.config/pyansys-rag/pyansys-rag.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	addChatFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pyansys-rag")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pyansys-rag"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("PYANSYS_RAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
