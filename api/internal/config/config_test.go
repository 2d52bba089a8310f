package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
		"TRANSLATE_ENDPOINT", "TRANSLATE_API_KEY", "TRANSLATE_TIMEOUT",
		"ARGON2_TIME", "ARGON2_MEMORY_KIB", "ARGON2_THREADS",
		"MAX_BODY_BYTES", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"REQUEST_TIMEOUT", "TRUST_PROXY_HEADERS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Development(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHADOWSHARE_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, DefaultTranslateEndpoint, cfg.TranslateEndpoint)
	assert.False(t, cfg.TranslationEnabled())
	assert.Equal(t, 15*time.Second, cfg.TranslateTimeout)
	assert.Equal(t, uint32(3), cfg.Argon2Time)
	assert.Equal(t, uint32(64*1024), cfg.Argon2MemoryKiB)
	assert.Equal(t, uint8(2), cfg.Argon2Threads)
	assert.Equal(t, int64(10485760), cfg.MaxBodyBytes)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestLoad_Production_MissingSecrets(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHADOWSHARE_ENV", "production")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://shadowshare.example")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TRANSLATE_API_KEY")
	})

	t.Run("placeholder api key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHADOWSHARE_ENV", "production")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://shadowshare.example")
		t.Setenv("TRANSLATE_API_KEY", PlaceholderAPIKey)

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("missing cors", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHADOWSHARE_ENV", "production")
		t.Setenv("TRANSLATE_API_KEY", "live-key")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS")
	})
}

func TestLoad_Production(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHADOWSHARE_ENV", "production")
	t.Setenv("TRANSLATE_API_KEY", "live-key")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TRANSLATE_TIMEOUT", "3s")
	t.Setenv("ARGON2_MEMORY_KIB", "131072")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.TranslationEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.TranslateTimeout)
	assert.Equal(t, uint32(131072), cfg.Argon2MemoryKiB)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_RejectsBadNumbers(t *testing.T) {
	cases := map[string]string{
		"ARGON2_TIME":         "zero",
		"ARGON2_THREADS":      "0",
		"MAX_BODY_BYTES":      "-1",
		"RATE_LIMIT_RPS":      "fast",
		"RATE_LIMIT_BURST":    "0",
		"TRANSLATE_TIMEOUT":   "soon",
		"LOG_LEVEL":           "chatty",
		"REQUEST_TIMEOUT":     "later",
		"TRUST_PROXY_HEADERS": "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SHADOWSHARE_ENV", "development")
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_RequestTimeoutMustExceedTranslateTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHADOWSHARE_ENV", "development")
	t.Setenv("TRANSLATE_TIMEOUT", "20s")
	t.Setenv("REQUEST_TIMEOUT", "20s")

	_, err := Load()
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")

	t.Setenv("REQUEST_TIMEOUT", "25s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Greater(t, cfg.RequestTimeout, cfg.TranslateTimeout)
}
