package gateway

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIBackend calls an OpenAI-compatible chat completions API and asks for
// json_schema structured output when a schema is supplied.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// OpenAIConfig configures NewOpenAIBackend. BaseURL and HTTPClient are
// optional.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// NewOpenAIBackend creates an OpenAI backend.
func NewOpenAIBackend(cfg OpenAIConfig) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai backend: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(oc), model: cfg.Model}, nil
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Complete(ctx context.Context, req Request) (string, error) {
	cr := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}
	if req.Schema != nil {
		cr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: req.Schema.StrictCompatible(),
			},
		}
	}

	resp, err := b.client.CreateChatCompletion(ctx, cr)
	if err != nil {
		return "", &UpstreamError{Backend: b.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Backend: b.Name(), Err: errors.New("no choices in response")}
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", Refusal(b.Name(), msg.Refusal)
	}
	return msg.Content, nil
}
