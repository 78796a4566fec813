package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "config.json",
			content: `{"port": 9090, "max_upload_bytes": 2048, "llm_cleanup": true, "api_key": "k", "llm_model": "m", "verbose": true}`,
		},
		{
			name:    "yaml",
			file:    "config.yaml",
			content: "port: 9090\nmax_upload_bytes: 2048\nllm_cleanup: true\napi_key: k\nllm_model: m\nverbose: true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, 9090, cfg.Port)
			assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
			assert.True(t, cfg.LLMCleanup)
			assert.Equal(t, "k", cfg.APIKey)
			assert.Equal(t, "m", cfg.LLMModel)
			assert.True(t, cfg.Verbose)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{name: "empty path", path: func(*testing.T) string { return "" }, wantErr: "config path is empty"},
		{name: "missing file", path: func(*testing.T) string { return "/nonexistent/config.json" }, wantErr: "failed to read config file"},
		{name: "bad json", path: func(t *testing.T) string { return writeConfig(t, "c.json", "{ invalid") }, wantErr: "failed to parse config JSON"},
		{name: "bad yaml", path: func(t *testing.T) string { return writeConfig(t, "c.yml", "port: [1") }, wantErr: "failed to parse config YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://localhost/resumes")
	t.Setenv("RESUME_MAX_UPLOAD_BYTES", "4096")
	t.Setenv("RESUME_BATCH_WORKERS", "8")
	t.Setenv("RESUME_LLM_CLEANUP", "true")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("RESUME_LLM_MODEL", "gemini-2.5-pro")

	cfg := &Config{Port: 1}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "postgres://localhost/resumes", cfg.DatabaseURL)
	assert.Equal(t, int64(4096), cfg.MaxUploadBytes)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.True(t, cfg.LLMCleanup)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLMModel)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("RESUME_BATCH_WORKERS", "many")

	cfg := &Config{}
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESUME_BATCH_WORKERS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Default()},
		{name: "empty", cfg: Config{}},
		{name: "port out of range", cfg: Config{Port: 70000}, wantErr: true},
		{name: "too many workers", cfg: Config{BatchWorkers: 100}, wantErr: true},
		{name: "cleanup without key", cfg: Config{LLMCleanup: true}, wantErr: true},
		{name: "cleanup with key", cfg: Config{LLMCleanup: true, APIKey: "k"}},
		{name: "bad database url", cfg: Config{DatabaseURL: "not a url"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Port: 9000, DatabaseURL: "postgres://db/x"}

	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, int64(DefaultMaxUploadBytes), merged.MaxUploadBytes)
	assert.Equal(t, DefaultBatchWorkers, merged.BatchWorkers)
	assert.Equal(t, "postgres://db/x", merged.DatabaseURL)
	assert.Equal(t, 0, cfg.BatchWorkers, "receiver should be unchanged")
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RESUME_MAX_UPLOAD_BYTES", "")
	path := writeConfig(t, "config.yaml", "port: 9100\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
}
