package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr" validate:"required"`
	ReadTimeoutSecs int    `yaml:"read_timeout_secs" validate:"min=0"`
	MaxUploadMB     int    `yaml:"max_upload_mb" validate:"min=1"`
}

// OpenAIConfig holds connection details for the OpenAI-compatible embedding
// and chat-completion service. The secret itself lives in the environment.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url" validate:"required,url"`
	APIKeyEnv   string `yaml:"api_key_env" validate:"required"`
	EmbedModel  string `yaml:"embed_model" validate:"required"`
	ChatModel   string `yaml:"chat_model" validate:"required"`
	TimeoutSecs int    `yaml:"timeout_secs" validate:"min=1"`
	MaxRetries  int    `yaml:"max_retries" validate:"min=0"`
}

// RetrievalConfig configures the chunking and ranking parameters.
type RetrievalConfig struct {
	ChunkSize int `yaml:"chunk_size" validate:"min=1"`
	TopK      int `yaml:"top_k" validate:"min=1"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Timeout returns the per-external-call timeout as a duration.
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/policyqa/config.yaml.
// If neither exists it returns defaults.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), "", nil
	}
	userPath := filepath.Join(home, ".config", "policyqa", "config.yaml")
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	return defaultConfig(), "", nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 10
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.OpenAI.EmbedModel == "" {
		cfg.OpenAI.EmbedModel = "text-embedding-3-small"
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.TimeoutSecs == 0 {
		cfg.OpenAI.TimeoutSecs = 30
	}
	if cfg.OpenAI.MaxRetries == 0 {
		cfg.OpenAI.MaxRetries = 3
	}
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 500
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
}
