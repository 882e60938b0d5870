// Package config provides configuration management for Loreweaver.
// It loads settings from environment variables with the LOREWEAVER_ prefix
// and provides sensible defaults for all configuration options.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration settings for the Loreweaver application.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	LLM      LLMConfig
	Security SecurityConfig
	World    WorldConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 7171)
	Host string // Server host (default: 127.0.0.1)
}

// StorageConfig contains database and storage configuration.
type StorageConfig struct {
	StorageEngine string // Storage engine type: sqlite, postgres (default: sqlite)
	DataPath      string // Path to data directory for SQLite (default: ./data)
	PostgresDSN   string // PostgreSQL connection string (used when engine is postgres)
}

// LLMConfig contains LLM provider configuration.
type LLMConfig struct {
	Provider     string // LLM provider: ollama, openai, gemini (default: ollama)
	OllamaURL    string // Ollama API URL (default: http://localhost:11434)
	OllamaModel  string // Ollama model name (default: llama3.1:8b)
	OpenAIAPIKey string // OpenAI API key
	OpenAIModel  string // OpenAI model name (default: gpt-4o-mini)
	GeminiAPIKey string // Gemini API key
	GeminiModel  string // Gemini model name (default: gemini-2.0-flash)
	Timeout      time.Duration // Request timeout (default: 60s)
}

// SecurityConfig contains security and rate limiting settings.
type SecurityConfig struct {
	SecurityMode  string  // Security mode: development, production (default: development)
	APIToken      string  // API authentication token
	RateLimit     float64 // Requests per second per client (default: 10)
	RateLimitBurst int    // Burst allowance for the rate limiter (default: 20)
}

// WorldConfig contains world simulation settings.
type WorldConfig struct {
	// EventInboxPath is a directory watched for world event JSON drops.
	// Empty disables the watcher.
	EventInboxPath string

	// EventOutboxPath is a directory where notable happenings are written
	// as JSON for external tooling. Empty disables the writer.
	EventOutboxPath string

	// DefaultEventDuration is how long a generated event stays active
	// (default: 24h).
	DefaultEventDuration time.Duration
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the LOREWEAVER_ prefix.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("LOREWEAVER_PORT", 7171),
			Host: getEnv("LOREWEAVER_HOST", "127.0.0.1"),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("LOREWEAVER_STORAGE_ENGINE", "sqlite"),
			DataPath:      getEnv("LOREWEAVER_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("LOREWEAVER_POSTGRES_DSN", ""),
		},
		LLM: LLMConfig{
			Provider:     getEnv("LOREWEAVER_LLM_PROVIDER", "ollama"),
			OllamaURL:    getEnv("LOREWEAVER_OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:  getEnv("LOREWEAVER_OLLAMA_MODEL", "llama3.1:8b"),
			OpenAIAPIKey: getEnv("LOREWEAVER_OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("LOREWEAVER_OPENAI_MODEL", "gpt-4o-mini"),
			GeminiAPIKey: getEnv("LOREWEAVER_GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("LOREWEAVER_GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:      getEnvDuration("LOREWEAVER_LLM_TIMEOUT", 60*time.Second),
		},
		Security: SecurityConfig{
			SecurityMode:   getEnv("LOREWEAVER_SECURITY_MODE", "development"),
			APIToken:       getEnv("LOREWEAVER_API_TOKEN", ""),
			RateLimit:      getEnvFloat("LOREWEAVER_RATE_LIMIT", 10),
			RateLimitBurst: getEnvInt("LOREWEAVER_RATE_LIMIT_BURST", 20),
		},
		World: WorldConfig{
			EventInboxPath:       getEnv("LOREWEAVER_EVENT_INBOX", ""),
			EventOutboxPath:      getEnv("LOREWEAVER_EVENT_OUTBOX", ""),
			DefaultEventDuration: getEnvDuration("LOREWEAVER_EVENT_DURATION", 24*time.Hour),
		},
	}, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the environment variable exists but cannot be parsed as an
// integer, it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable (Go duration
// syntax, e.g. "90s", "24h") or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
