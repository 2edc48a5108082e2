package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Durable store. Mandatory: the query log is the one collaborator the
	// server refuses to start without.
	DatabaseURL string
	// Search provider credentials. Optional: absence degrades to fallback results.
	GoogleAPIKey   string
	GoogleEngineID string
	// Redis accelerator. Optional: absence degrades to durable-log reads.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	// WingMan assistant
	OpenRouterAPIKey string
	OpenRouterModel  string
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "dev"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "http://localhost:5173"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		GoogleAPIKey:     getEnv("GOOGLE_SEARCH_API_KEY", ""),
		GoogleEngineID:   getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisHost:        getEnv("REDIS_HOST", ""),
		RedisPort:        getEnv("REDIS_PORT", ""),
		RedisUsername:    getEnv("REDIS_USERNAME", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", "openai/gpt-4-turbo-preview"),
	}
}

// SearchConfigured reports whether the external search provider credentials
// are present. Without both values every search is served by the fallback
// provider.
func (c *Config) SearchConfigured() bool {
	return c.GoogleAPIKey != "" && c.GoogleEngineID != ""
}

// RedisConfigured reports whether any Redis connection settings are present.
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != "" || (c.RedisHost != "" && c.RedisPort != "")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
