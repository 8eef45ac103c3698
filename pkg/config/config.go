// Package config loads the scribe configuration from a YAML file with
// environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	ASR      ASRConfig      `yaml:"asr"`
	LLM      LLMConfig      `yaml:"llm"`
	Store    StoreConfig    `yaml:"store"`
	Cache    CacheConfig    `yaml:"cache"`
	Context  ContextConfig  `yaml:"context"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// ASRConfig configures the speech-recognition endpoint.
type ASRConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Quality selects the default transcription quality level
	// (tiny, base, small, medium).
	Quality string `yaml:"quality"`
}

// LLMConfig configures the text-generation endpoint.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// StoreConfig configures meeting persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig bounds the in-process memoization cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

// ContextConfig selects the context-assembly strategy for history queries.
type ContextConfig struct {
	// Strategy is one of full_concat, bounded_recent, retrieval_top_k.
	Strategy string `yaml:"strategy"`
	// MaxRecords caps the record count for bounded_recent and the k for
	// retrieval_top_k.
	MaxRecords int `yaml:"max_records"`
	// MaxTokens caps the assembled context size for bounded_recent.
	MaxTokens int `yaml:"max_tokens"`
}

// PipelineConfig tunes orchestration behavior.
type PipelineConfig struct {
	// CallTimeoutSeconds bounds each external ASR/LLM call.
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
	// MaxConcurrentCalls bounds in-flight external calls across requests.
	MaxConcurrentCalls int `yaml:"max_concurrent_calls"`
}

// Load reads the configuration file at path, applies environment overrides
// and defaults, and validates the result. A missing file yields a default
// configuration (secrets still come from the environment).
func Load(path string) (*Config, error) {
	cfg := &Config{}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides secrets from the environment. Keys in the file are
// supported for local setups, but the environment wins.
func (c *Config) applyEnv() {
	if v := os.Getenv("SCRIBE_ASR_API_KEY"); v != "" {
		c.ASR.APIKey = v
	}
	if v := os.Getenv("SCRIBE_ASR_BASE_URL"); v != "" {
		c.ASR.BaseURL = v
	}
	if v := os.Getenv("SCRIBE_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("SCRIBE_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.ASR.Quality == "" {
		c.ASR.Quality = "base"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.Store.Path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			c.Store.Path = filepath.Join(home, ".scribe", "meetings.db")
		} else {
			c.Store.Path = "meetings.db"
		}
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 256
	}
	if c.Context.Strategy == "" {
		c.Context.Strategy = "full_concat"
	}
	if c.Context.MaxRecords == 0 {
		c.Context.MaxRecords = 20
	}
	if c.Context.MaxTokens == 0 {
		c.Context.MaxTokens = 60000
	}
	if c.Pipeline.CallTimeoutSeconds == 0 {
		c.Pipeline.CallTimeoutSeconds = 300
	}
	if c.Pipeline.MaxConcurrentCalls == 0 {
		c.Pipeline.MaxConcurrentCalls = 4
	}
}

// Validate checks fields that have no safe default.
func (c *Config) Validate() error {
	switch c.ASR.Quality {
	case "tiny", "base", "small", "medium":
	default:
		return fmt.Errorf("config: invalid asr.quality %q (want tiny, base, small, or medium)", c.ASR.Quality)
	}
	switch c.Context.Strategy {
	case "full_concat", "bounded_recent", "retrieval_top_k":
	default:
		return fmt.Errorf("config: invalid context.strategy %q", c.Context.Strategy)
	}
	if c.Pipeline.CallTimeoutSeconds < 0 {
		return fmt.Errorf("config: pipeline.call_timeout_seconds must not be negative")
	}
	return nil
}
