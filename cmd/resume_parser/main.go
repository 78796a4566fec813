// Package main provides the entry point for the resume parser CLI and HTTP server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "resume_parser",
	Short: "Resume parser CLI and HTTP API server",
	Long:  "Resume parser extracts text from PDF and DOCX resumes and turns it into structured JSON: contact info, education, experience, skills and projects.",

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and boxed result summaries")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a text logger on w at INFO, or DEBUG when verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the effective configuration for a command. --verbose on the
// command line wins over the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newCleaner builds the model-based text cleaner when enabled in cfg.
// The returned close function is always safe to call.
func newCleaner(ctx context.Context, cfg *config.Config) (pipeline.TextCleaner, func(), error) {
	if !cfg.LLMCleanup {
		return nil, func() {}, nil
	}
	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.APIKey)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.NewCleaner(client), func() { _ = client.Close() }, nil
}

// llmConfig returns the default model config with the cleanup model overridden by cfg.LLMModel
func llmConfig(cfg *config.Config) *llm.Config {
	modelCfg := llm.DefaultConfig()
	if cfg.LLMModel != "" {
		modelCfg = modelCfg.WithModel(llm.TierLite, cfg.LLMModel)
	}
	return modelCfg
}

// newParser builds the pipeline for CLI commands, logging to stderr
func newParser(ctx context.Context, cfg *config.Config) (*pipeline.Parser, func(), error) {
	cleaner, closeFn, err := newCleaner(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(os.Stderr, cfg.Verbose)
	return pipeline.New(pipeline.Options{Logger: logger, Cleaner: cleaner}), closeFn, nil
}
