package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/architect/internal/gateway"
	"github.com/ashita-ai/architect/internal/schema"
)

func structuredRequest() gateway.Request {
	return gateway.Request{
		Conversation: gateway.Conversation{System: "be an architect", User: "analyze this"},
		Schema:       schema.AnalyzeShape.Output.Schema(),
		SchemaName:   gateway.SchemaName,
	}
}

func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}

func TestOpenAIBackend_SendsJSONSchema(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body = readJSON(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop",
				"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`)
	}))
	defer srv.Close()

	b, err := gateway.NewOpenAIBackend(gateway.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	text, err := b.Complete(context.Background(), structuredRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	assert.Equal(t, gateway.DefaultOpenAIModel, body["model"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "be an architect", msgs[0].(map[string]any)["content"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])

	format := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	js := format["json_schema"].(map[string]any)
	assert.Equal(t, "architecture", js["name"])
	assert.Equal(t, true, js["strict"])
	assert.Equal(t, "object", js["schema"].(map[string]any)["type"])
}

func TestOpenAIBackend_NonStrictSchema(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = readJSON(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"{}"}}]}`)
	}))
	defer srv.Close()

	b, err := gateway.NewOpenAIBackend(gateway.OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	req := structuredRequest()
	req.Schema = schema.GenerateShape.Output.Schema()
	_, err = b.Complete(context.Background(), req)
	require.NoError(t, err)

	js := body["response_format"].(map[string]any)["json_schema"].(map[string]any)
	assert.NotEqual(t, true, js["strict"], "catch-all maps cannot be strict")
}

func TestOpenAIBackend_Refusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"","refusal":"cannot help"}}]}`)
	}))
	defer srv.Close()

	b, err := gateway.NewOpenAIBackend(gateway.OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), structuredRequest())
	var mismatch *gateway.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch), "got %T: %v", err, err)
	assert.Contains(t, err.Error(), "cannot help")
}

func TestOpenAIBackend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	b, err := gateway.NewOpenAIBackend(gateway.OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), structuredRequest())
	var upstream *gateway.UpstreamError
	require.True(t, errors.As(err, &upstream), "got %T: %v", err, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestNewOpenAIBackend_RequiresKey(t *testing.T) {
	_, err := gateway.NewOpenAIBackend(gateway.OpenAIConfig{})
	assert.Error(t, err)
}

func TestOllamaBackend_SendsFormat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		body = readJSON(t, r)
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"{\"ok\":true}"},"done":true}`)
	}))
	defer srv.Close()

	b := gateway.NewOllamaBackend(srv.URL, "", nil)
	text, err := b.Complete(context.Background(), structuredRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	assert.Equal(t, gateway.DefaultOllamaModel, body["model"])
	assert.Equal(t, false, body["stream"])
	format, ok := body["format"].(map[string]any)
	require.True(t, ok, "format carries the schema")
	assert.Equal(t, "object", format["type"])
	msgs := body["messages"].([]any)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "analyze this", msgs[1].(map[string]any)["content"])
}

func TestOllamaBackend_FreeTextOmitsFormat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = readJSON(t, r)
		_, _ = io.WriteString(w, `{"message":{"content":"hello"}}`)
	}))
	defer srv.Close()

	req := structuredRequest()
	req.Schema = nil
	text, err := gateway.NewOllamaBackend(srv.URL, "qwen2.5", nil).Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.NotContains(t, body, "format")
	assert.Equal(t, "qwen2.5", body["model"])
}

func TestOllamaBackend_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := gateway.NewOllamaBackend(srv.URL, "", nil).Complete(context.Background(), structuredRequest())
	var upstream *gateway.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaBackend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := gateway.NewOllamaBackend(url, "", nil).Complete(context.Background(), structuredRequest())
	var upstream *gateway.UpstreamError
	require.True(t, errors.As(err, &upstream))
}

func TestReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"models":[]}`)
	}))
	defer srv.Close()

	assert.True(t, gateway.Reachable(context.Background(), srv.URL))
	srv.Close()
	assert.False(t, gateway.Reachable(context.Background(), srv.URL))
}

func TestGeminiBackend_SendsResponseSchema(t *testing.T) {
	var body map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body = readJSON(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model",
			"parts":[{"text":"{\"ok\":"},{"text":"true}"}]}}]}`)
	}))
	defer srv.Close()

	b, err := gateway.NewGeminiBackend(context.Background(), gateway.GeminiConfig{APIKey: "g-test", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := b.Complete(context.Background(), structuredRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.True(t, strings.HasSuffix(path, gateway.DefaultGeminiModel+":generateContent"), path)

	cfg := body["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	assert.Contains(t, cfg, "responseJsonSchema")
	assert.Contains(t, body, "systemInstruction")
}

func TestGeminiBackend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	b, err := gateway.NewGeminiBackend(context.Background(), gateway.GeminiConfig{APIKey: "g", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), structuredRequest())
	var upstream *gateway.UpstreamError
	require.True(t, errors.As(err, &upstream), "got %T: %v", err, err)
}
