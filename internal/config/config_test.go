package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "POSTGRES_URI", "REDIS_URI", "PORT", "FRONTEND_URL", "FRONTEND_URL_2", "ALLOWED_ORIGINS", "TOGETHER_API_KEY", "TOGETHER_MODEL", "TOGETHER_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "postgres://localhost:5432/whisperlink?sslmode=disable", cfg.PostgresURI)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURI)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.TogetherAPIKey)
	assert.Equal(t, "meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo", cfg.TogetherModel)
	assert.Equal(t, "https://api.together.xyz/v1/chat/completions", cfg.TogetherBaseURL)
	assert.Equal(t, 30*time.Second, cfg.TogetherTimeout)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://whisperlink.app , https://www.whisperlink.app ,")
	cfg := Load()
	assert.Equal(t, []string{"https://whisperlink.app", "https://www.whisperlink.app"}, cfg.AllowedOrigins)
}

func TestLoad_FrontendURLFallback(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://whisperlink.app")
	t.Setenv("FRONTEND_URL_2", "https://staging.whisperlink.app")
	cfg := Load()
	assert.Equal(t, []string{"https://whisperlink.app", "https://staging.whisperlink.app"}, cfg.AllowedOrigins)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "  Production ")
	assert.True(t, Load().IsProduction())

	t.Setenv("ENV", "development")
	assert.False(t, Load().IsProduction())
}
