package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashita-ai/architect/internal/config"
	"github.com/ashita-ai/architect/internal/gateway"
)

// ollamaProbeTimeout bounds the auto-detect check against a local Ollama.
const ollamaProbeTimeout = 2 * time.Second

// newBackend creates the model backend named by cfg.ModelProvider.
// Provider selection: "openai", "gemini", "ollama", or "auto" (default).
// Auto mode picks OpenAI if a key is present, then Gemini, then Ollama if
// reachable; it fails when none is available.
func newBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (gateway.Backend, error) {
	provider := cfg.ModelProvider
	if provider == config.ProviderAuto || provider == "" {
		provider = detectProvider(ctx, cfg)
		if provider == "" {
			return nil, fmt.Errorf("no model backend available: set OPENAI_API_KEY or GEMINI_API_KEY, or run Ollama at %s", cfg.OllamaURL)
		}
		logger.Info("model backend auto-detected", "backend", provider)
	}

	// A zero timeout means no per-call deadline.
	httpClient := &http.Client{Timeout: cfg.ModelTimeout}

	switch provider {
	case config.ProviderOpenAI:
		logger.Info("model backend: openai", "model", modelOr(cfg.Model, gateway.DefaultOpenAIModel))
		return gateway.NewOpenAIBackend(gateway.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.Model,
			HTTPClient: httpClient,
		})

	case config.ProviderGemini:
		logger.Info("model backend: gemini", "model", modelOr(cfg.Model, gateway.DefaultGeminiModel))
		return gateway.NewGeminiBackend(ctx, gateway.GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.Model,
			HTTPClient: httpClient,
		})

	case config.ProviderOllama:
		logger.Info("model backend: ollama", "url", cfg.OllamaURL, "model", modelOr(cfg.Model, gateway.DefaultOllamaModel))
		return gateway.NewOllamaBackend(cfg.OllamaURL, cfg.Model, httpClient), nil

	default:
		return nil, fmt.Errorf("unknown model provider %q", provider)
	}
}

// detectProvider returns the first usable provider, or "" if none is.
func detectProvider(ctx context.Context, cfg config.Config) string {
	if cfg.OpenAIAPIKey != "" {
		return config.ProviderOpenAI
	}
	if cfg.GeminiAPIKey != "" {
		return config.ProviderGemini
	}
	probeCtx, cancel := context.WithTimeout(ctx, ollamaProbeTimeout)
	defer cancel()
	if gateway.Reachable(probeCtx, cfg.OllamaURL) {
		return config.ProviderOllama
	}
	return ""
}

func modelOr(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}
