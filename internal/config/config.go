// Package config loads and validates application configuration from environment variables.
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

// Transport names.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Model provider names.
const (
	ProviderAuto   = "auto"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Config holds all application configuration.
type Config struct {
	// Transport settings.
	Transport    string // "stdio" or "http"
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Rate limiting of /mcp on the HTTP transport, per client IP.
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// Model settings.
	ModelProvider string        // "auto", "openai", "gemini", or "ollama"
	Model         string        // Empty means the provider's default model.
	ModelTimeout  time.Duration // Zero disables the per-call deadline.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
	OllamaURL     string

	// OTEL settings.
	OTELEndpoint string
	ServiceName  string
	OTELInsecure bool

	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
// Every malformed value is reported, not just the first.
func Load() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	port, err := envInt("ARCHITECT_PORT", 8080)
	collect(err)
	readTimeout, err := envDuration("ARCHITECT_READ_TIMEOUT", 30*time.Second)
	collect(err)
	writeTimeout, err := envDuration("ARCHITECT_WRITE_TIMEOUT", 30*time.Second)
	collect(err)
	modelTimeout, err := envDuration("ARCHITECT_MODEL_TIMEOUT", 0)
	collect(err)
	insecure, err := envBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	collect(err)
	rlEnabled, err := envBool("ARCHITECT_RATE_LIMIT_ENABLED", false)
	collect(err)
	rlRPS, err := envFloat("ARCHITECT_RATE_LIMIT_RPS", 2)
	collect(err)
	rlBurst, err := envInt("ARCHITECT_RATE_LIMIT_BURST", 10)
	collect(err)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}

	cfg := Config{
		Transport:     strings.ToLower(envStr("ARCHITECT_TRANSPORT", TransportStdio)),
		Port:          port,
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		ModelProvider: strings.ToLower(envStr("ARCHITECT_MODEL_PROVIDER", ProviderAuto)),
		Model:         envStr("ARCHITECT_MODEL", ""),
		ModelTimeout:  modelTimeout,
		OpenAIAPIKey:  envStr("OPENAI_API_KEY", ""),
		OpenAIBaseURL: envStr("OPENAI_BASE_URL", ""),
		GeminiAPIKey:  envStr("GEMINI_API_KEY", ""),
		OllamaURL:     envStr("OLLAMA_URL", "http://localhost:11434"),
		OTELEndpoint:  envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:   envStr("OTEL_SERVICE_NAME", "architect"),
		OTELInsecure:  insecure,
		LogLevel:      envStr("ARCHITECT_LOG_LEVEL", "info"),

		RateLimitEnabled: rlEnabled,
		RateLimitRPS:     rlRPS,
		RateLimitBurst:   rlBurst,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that enumerated settings hold known values.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("config: ARCHITECT_TRANSPORT=%q must be stdio or http", c.Transport)
	}
	switch c.ModelProvider {
	case ProviderAuto, ProviderOpenAI, ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("config: ARCHITECT_MODEL_PROVIDER=%q must be auto, openai, gemini, or ollama", c.ModelProvider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: ARCHITECT_PORT must be between 1 and 65535")
	}
	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst < 1) {
		return fmt.Errorf("config: ARCHITECT_RATE_LIMIT_RPS and ARCHITECT_RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if c.ModelTimeout < 0 {
		return fmt.Errorf("config: ARCHITECT_MODEL_TIMEOUT must not be negative")
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid number", key, v)
	}
	return f, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
