package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultOllamaURL and DefaultOllamaModel apply when unset.
const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.1"
)

// OllamaBackend calls a local Ollama chat model. Structured output uses the
// format field, which accepts a JSON schema.
type OllamaBackend struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaBackend creates a backend for Ollama's /api/chat endpoint.
// A nil httpClient means http.DefaultClient.
func NewOllamaBackend(baseURL, model string, httpClient *http.Client) *OllamaBackend {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaBackend{baseURL: baseURL, model: model, httpClient: httpClient}
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Format   json.Marshaler      `json:"format,omitempty"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

func (b *OllamaBackend) Name() string { return "ollama" }

func (b *OllamaBackend) Complete(ctx context.Context, req Request) (string, error) {
	cr := ollamaChatRequest{
		Model: b.model,
		Messages: []ollamaChatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: false,
	}
	if req.Schema != nil {
		cr.Format = req.Schema
	}
	body, err := json.Marshal(cr)
	if err != nil {
		return "", fmt.Errorf("ollama backend: marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama backend: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", &UpstreamError{Backend: b.Name(), Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &UpstreamError{Backend: b.Name(), Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))}
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &UpstreamError{Backend: b.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.Error != "" {
		return "", &UpstreamError{Backend: b.Name(), Err: fmt.Errorf("api error: %s", result.Error)}
	}
	return result.Message.Content, nil
}

// Reachable reports whether an Ollama server answers at baseURL.
func Reachable(ctx context.Context, baseURL string) bool {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}
