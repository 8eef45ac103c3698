package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "base", cfg.ASR.Quality)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "full_concat", cfg.Context.Strategy)
	assert.Equal(t, 256, cfg.Cache.MaxEntries)
	assert.Equal(t, 300, cfg.Pipeline.CallTimeoutSeconds)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrentCalls)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
asr:
  base_url: http://localhost:8080/v1
  quality: medium
llm:
  model: gpt-4o-mini
context:
  strategy: bounded_recent
  max_records: 5
  max_tokens: 1000
pipeline:
  call_timeout_seconds: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1", cfg.ASR.BaseURL)
	assert.Equal(t, "medium", cfg.ASR.Quality)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "bounded_recent", cfg.Context.Strategy)
	assert.Equal(t, 5, cfg.Context.MaxRecords)
	assert.Equal(t, 1000, cfg.Context.MaxTokens)
	assert.Equal(t, 30, cfg.Pipeline.CallTimeoutSeconds)
}

func TestLoadEnvOverridesSecrets(t *testing.T) {
	t.Setenv("SCRIBE_LLM_API_KEY", "env-key")
	t.Setenv("SCRIBE_ASR_BASE_URL", "http://asr.internal/v1")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  api_key: file-key\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.LLM.APIKey, "environment wins over file")
	assert.Equal(t, "http://asr.internal/v1", cfg.ASR.BaseURL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad quality", content: "asr:\n  quality: enormous\n"},
		{name: "bad strategy", content: "context:\n  strategy: psychic\n"},
		{name: "negative timeout", content: "pipeline:\n  call_timeout_seconds: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
