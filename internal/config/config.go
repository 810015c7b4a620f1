package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	// GeminiAPIKey and GeminiEndpoint are forwarded to the extraction
	// adapter as-is. Neither is validated at startup; a missing value
	// surfaces when the first upstream call fails.
	GeminiAPIKey   string
	GeminiEndpoint string
	// ExportDir is where exported grade workbooks are written.
	ExportDir string
	// ExportRetentionDays bounds how long workbooks are kept.
	// Zero disables pruning.
	ExportRetentionDays int
	RatePerMinute       int
	// AllowedOrigins controls HTTP CORS.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiEndpoint:      getEnv("GEMINI_ENDPOINT", ""),
		ExportDir:           getEnv("EXPORT_DIR", "./exports"),
		ExportRetentionDays: getEnvInt("EXPORT_RETENTION_DAYS", 0),
		RatePerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		AllowedOrigins:      parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
