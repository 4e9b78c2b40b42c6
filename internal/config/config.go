package config

import (
	"os"
	"strings"
	"time"
)

// TogetherPlaceholderKey is the sample value shipped in .env.example; treated
// the same as an unset key so fresh checkouts degrade to raw feedback instead
// of failing requests.
const TogetherPlaceholderKey = "your-together-api-key-here"

type Config struct {
	PostgresURI    string
	RedisURI       string
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	Environment    string   // ENV: production, development, etc.

	// Together AI (feedback augmentation)
	TogetherAPIKey  string
	TogetherModel   string
	TogetherBaseURL string
	TogetherTimeout time.Duration
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		PostgresURI:     getEnv("POSTGRES_URI", "postgres://localhost:5432/whisperlink?sslmode=disable"),
		RedisURI:        getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:            getEnv("PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:  allowedOrigins,
		Environment:     env,
		TogetherAPIKey:  getEnv("TOGETHER_API_KEY", ""),
		TogetherModel:   getEnv("TOGETHER_MODEL", "meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo"),
		TogetherBaseURL: getEnv("TOGETHER_BASE_URL", "https://api.together.xyz/v1/chat/completions"),
		TogetherTimeout: 30 * time.Second,
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
