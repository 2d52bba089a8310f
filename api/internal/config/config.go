package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all dynamic configuration for the ShadowShare API.
// 🛡️ SLA: Secrets only ever arrive through the environment, never as literals.
type Config struct {
	Environment    string // "development" or "production"
	Port           string
	AllowedOrigins []string
	LogLevel       slog.Level

	// 🛡️ Outbound translation link
	TranslateEndpoint string
	TranslateAPIKey   string
	TranslateTimeout  time.Duration

	// 🛡️ Password KDF cost
	Argon2Time      uint32
	Argon2MemoryKiB uint32
	Argon2Threads   uint8

	// 🛡️ Gateway limits
	MaxBodyBytes   int64
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration

	// TrustProxyHeaders lets X-Forwarded-For and friends replace the peer
	// address. Only enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// DefaultTranslateEndpoint is used when TRANSLATE_ENDPOINT is unset.
const DefaultTranslateEndpoint = "https://api.gemini.google/translate"

// PlaceholderAPIKey is the value shipped in sample env files. It is treated as unset.
const PlaceholderAPIKey = "YOUR_GEMINI_API_KEY"

// IsProduction reports whether the strict boot rules apply.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TranslationEnabled reports whether a usable translation credential is configured.
func (c *Config) TranslationEnabled() bool {
	return c.TranslateAPIKey != "" && c.TranslateAPIKey != PlaceholderAPIKey
}

// Load parses the environment and applies sensible default fallbacks.
// Unlike a bare log.Fatal, it reports problems to the caller so main decides how to exit.
func Load() (*Config, error) {
	env := getEnv("SHADOWSHARE_ENV", "production")
	production := env == "production"

	// 1. 🛡️ Zero-Trust: Fail Fast on Missing Secrets
	apiKey := getEnv("TRANSLATE_API_KEY", "")
	if production && (apiKey == "" || apiKey == PlaceholderAPIKey) {
		return nil, errors.New("TRANSLATE_API_KEY environment variable is required in production")
	}

	// 2. 🛡️ Strict CORS: Must be explicitly defined in Production
	corsOrigins := getEnv("CORS_ALLOWED_ORIGINS", "")
	if corsOrigins == "" {
		if production {
			return nil, errors.New("CORS_ALLOWED_ORIGINS environment variable is required in production")
		}
		corsOrigins = "http://localhost:5173"
	}

	cfg := &Config{
		Environment:       env,
		Port:              getEnv("PORT", "8080"),
		AllowedOrigins:    splitList(corsOrigins),
		TranslateEndpoint: getEnv("TRANSLATE_ENDPOINT", DefaultTranslateEndpoint),
		TranslateAPIKey:   apiKey,
	}

	var err error
	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.TranslateTimeout, err = time.ParseDuration(getEnv("TRANSLATE_TIMEOUT", "15s")); err != nil {
		return nil, fmt.Errorf("invalid TRANSLATE_TIMEOUT: %w", err)
	}

	argonTime, err := getUint("ARGON2_TIME", 3, 32)
	if err != nil {
		return nil, err
	}
	argonMem, err := getUint("ARGON2_MEMORY_KIB", 64*1024, 32)
	if err != nil {
		return nil, err
	}
	argonThreads, err := getUint("ARGON2_THREADS", 2, 8)
	if err != nil {
		return nil, err
	}
	if argonTime == 0 || argonMem == 0 || argonThreads == 0 {
		return nil, errors.New("argon2 parameters must be positive")
	}
	cfg.Argon2Time = uint32(argonTime)
	cfg.Argon2MemoryKiB = uint32(argonMem)
	cfg.Argon2Threads = uint8(argonThreads)

	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "10485760"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("invalid MAX_BODY_BYTES %q", getEnv("MAX_BODY_BYTES", ""))
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64); err != nil || cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q", getEnv("RATE_LIMIT_RPS", ""))
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20")); err != nil || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST %q", getEnv("RATE_LIMIT_BURST", ""))
	}

	if cfg.RequestTimeout, err = time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	// A translate call has to finish inside the handler deadline
	if cfg.RequestTimeout <= cfg.TranslateTimeout {
		return nil, fmt.Errorf("REQUEST_TIMEOUT (%s) must exceed TRANSLATE_TIMEOUT (%s)", cfg.RequestTimeout, cfg.TranslateTimeout)
	}
	if cfg.TrustProxyHeaders, err = strconv.ParseBool(getEnv("TRUST_PROXY_HEADERS", "false")); err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY_HEADERS: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a fallback value.
// An empty value counts as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getUint(key string, fallback uint64, bits int) (uint64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
