// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultPort           = 8080
	DefaultMaxUploadBytes = 10 << 20 // 10 MiB
	DefaultBatchWorkers   = 4
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or environment variables.
type Config struct {
	// Server
	Port       int    `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	CORSOrigin string `json:"cors_origin,omitempty" yaml:"cors_origin,omitempty"`

	// Limits
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty" validate:"omitempty,min=1"`
	BatchWorkers   int   `json:"batch_workers,omitempty" yaml:"batch_workers,omitempty" validate:"omitempty,min=1,max=64"`

	// Behavior
	LLMCleanup  bool   `json:"llm_cleanup,omitempty" yaml:"llm_cleanup,omitempty"`                                // Run the model-based cleanup stage
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty" validate:"required_if=LLMCleanup true"` // Gemini API key
	LLMModel    string `json:"llm_model,omitempty" yaml:"llm_model,omitempty"`                                    // Cleanup model; empty uses the default
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty" validate:"omitempty,url"`     // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Default returns a Config holding every default value
func Default() Config {
	return Config{
		Port:           DefaultPort,
		MaxUploadBytes: DefaultMaxUploadBytes,
		BatchWorkers:   DefaultBatchWorkers,
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables when they are set:
// PORT, DATABASE_URL, GEMINI_API_KEY, RESUME_MAX_UPLOAD_BYTES, RESUME_BATCH_WORKERS,
// RESUME_LLM_CLEANUP, RESUME_LLM_MODEL and CORS_ORIGIN.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	if v := os.Getenv("RESUME_LLM_MODEL"); v != "" {
		c.LLMModel = v
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("RESUME_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid RESUME_MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("RESUME_BATCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RESUME_BATCH_WORKERS: %w", err)
		}
		c.BatchWorkers = n
	}
	if v := os.Getenv("RESUME_LLM_CLEANUP"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RESUME_LLM_CLEANUP: %w", err)
		}
		c.LLMCleanup = enabled
	}
	return nil
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// Bool fields cannot distinguish unset from false, so they are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.BatchWorkers == 0 {
		result.BatchWorkers = defaults.BatchWorkers
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LLMModel == "" {
		result.LLMModel = defaults.LLMModel
	}

	return result
}

// Load builds the effective configuration: the optional file at path, then
// environment overrides, then defaults, then validation.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
