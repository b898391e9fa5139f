// Package config provides configuration management for Compagnon.
// It loads settings from environment variables with the COMPAGNON_ prefix
// and provides sensible defaults for all configuration options.
//
// Similarity-retrieval tuning (feature weights, threshold, result count)
// can additionally be overridden from a YAML file named by
// COMPAGNON_TUNING_PATH; environment defaults apply when the file is absent.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the Compagnon application.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	LLM       LLMConfig
	Security  SecurityConfig
	Engine    EngineConfig
	Retrieval RetrievalConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 8484)
	Host string // Server host (default: 127.0.0.1)
}

// StorageConfig contains database and storage configuration.
type StorageConfig struct {
	StorageEngine string // Storage engine type: memory, sqlite, postgres (default: sqlite)
	DataPath      string // Path to data directory for SQLite (default: ./data)
	PostgresDSN   string // PostgreSQL connection string when engine is postgres
}

// LLMConfig contains LLM provider configuration. The engine works without
// any provider; a configured provider is tried first and the rule engine
// answers when it fails or produces an unusable reply.
type LLMConfig struct {
	LLMProvider  string // LLM provider: none, ollama, openai (default: none)
	OllamaURL    string // Ollama API URL (default: http://localhost:11434)
	OllamaModel  string // Ollama model name (default: qwen2.5:7b)
	OpenAIAPIKey string // OpenAI API key
	OpenAIModel  string // OpenAI model name (default: gpt-4o-mini)
	TimeoutSecs  int    // Per-request timeout in seconds (default: 20)
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string // Security mode: development, production (default: development)
	APIToken     string // API authentication token
}

// EngineConfig contains conversation-engine limits.
type EngineConfig struct {
	MaxSessionMessages int // Messages kept per session before FIFO eviction (default: 50)
	RetentionDays      int // Days of inactivity before a session is swept (default: 7)
	RecentWindow       int // Assistant messages checked for repetition (default: 6)
}

// RetrievalConfig tunes pattern similarity retrieval. The weights mirror the
// scoring formula: intent and context dominate, keywords and tone refine.
type RetrievalConfig struct {
	IntentWeight  float64 `yaml:"intent_weight"`  // default: 3
	ContextWeight float64 `yaml:"context_weight"` // default: 2
	KeywordWeight float64 `yaml:"keyword_weight"` // default: 1
	ToneWeight    float64 `yaml:"tone_weight"`    // default: 1
	Threshold     float64 `yaml:"threshold"`      // minimum score to count as similar (default: 0.6)
	TopK          int     `yaml:"top_k"`          // number of similar patterns returned (default: 3)
}

// LoadConfig loads configuration from environment variables with sensible
// defaults, then applies the retrieval tuning file if COMPAGNON_TUNING_PATH
// is set. All environment variables use the COMPAGNON_ prefix.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("COMPAGNON_PORT", 8484),
			Host: getEnv("COMPAGNON_HOST", "127.0.0.1"),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("COMPAGNON_STORAGE_ENGINE", "sqlite"),
			DataPath:      getEnv("COMPAGNON_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("COMPAGNON_POSTGRES_DSN", ""),
		},
		LLM: LLMConfig{
			LLMProvider:  getEnv("COMPAGNON_LLM_PROVIDER", "none"),
			OllamaURL:    getEnv("COMPAGNON_OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:  getEnv("COMPAGNON_OLLAMA_MODEL", "qwen2.5:7b"),
			OpenAIAPIKey: getEnv("COMPAGNON_OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("COMPAGNON_OPENAI_MODEL", "gpt-4o-mini"),
			TimeoutSecs:  getEnvInt("COMPAGNON_LLM_TIMEOUT_SECS", 20),
		},
		Security: SecurityConfig{
			SecurityMode: getEnv("COMPAGNON_SECURITY_MODE", "development"),
			APIToken:     getEnv("COMPAGNON_API_TOKEN", ""),
		},
		Engine: EngineConfig{
			MaxSessionMessages: getEnvInt("COMPAGNON_MAX_SESSION_MESSAGES", 50),
			RetentionDays:      getEnvInt("COMPAGNON_RETENTION_DAYS", 7),
			RecentWindow:       getEnvInt("COMPAGNON_RECENT_WINDOW", 6),
		},
		Retrieval: DefaultRetrievalConfig(),
	}

	if path := os.Getenv("COMPAGNON_TUNING_PATH"); path != "" {
		if err := cfg.Retrieval.loadFile(path); err != nil {
			return nil, fmt.Errorf("config: failed to load tuning file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultRetrievalConfig returns the built-in retrieval tuning.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		IntentWeight:  3,
		ContextWeight: 2,
		KeywordWeight: 1,
		ToneWeight:    1,
		Threshold:     0.6,
		TopK:          3,
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime behaviour.
func (c *Config) Validate() error {
	switch c.Storage.StorageEngine {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown storage engine %q", c.Storage.StorageEngine)
	}

	if c.Storage.StorageEngine == "postgres" && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("config: COMPAGNON_POSTGRES_DSN is required when storage engine is postgres")
	}

	switch c.LLM.LLMProvider {
	case "none", "ollama", "openai":
	default:
		return fmt.Errorf("config: unknown LLM provider %q", c.LLM.LLMProvider)
	}

	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		return fmt.Errorf("config: retrieval threshold must be in [0, 1], got %v", c.Retrieval.Threshold)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("config: retrieval top_k must be at least 1, got %d", c.Retrieval.TopK)
	}
	if c.Engine.MaxSessionMessages < 2 {
		return fmt.Errorf("config: max session messages must be at least 2, got %d", c.Engine.MaxSessionMessages)
	}

	return nil
}

// loadFile overlays values from a YAML tuning file. Fields absent from the
// file keep their current values.
func (r *RetrievalConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, r)
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as an integer,
// it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
