// Package architect implements the analyze, generate and evaluate
// operations and the dispatcher that routes calls to them.
package architect

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ashita-ai/architect/internal/gateway"
	"github.com/ashita-ai/architect/internal/schema"
)

// Model is the part of the gateway the operations depend on.
type Model interface {
	Invoke(ctx context.Context, conv gateway.Conversation, out *schema.Validator) (gateway.Result, error)
}

// Service runs the architecture operations. It keeps no state between calls.
type Service struct {
	model  Model
	logger *slog.Logger
}

// New creates a Service backed by model.
func New(model Model, logger *slog.Logger) *Service {
	return &Service{model: model, logger: logger}
}

// Analyze runs analyze_architecture. Invalid arguments are returned as an
// error; model failures become an error envelope.
func (s *Service) Analyze(ctx context.Context, args map[string]any) (Envelope, error) {
	in, err := schema.ParseAnalyzeInput(args)
	if err != nil {
		return Envelope{}, err
	}
	var out schema.AnalysisResult
	return s.run(ctx, "analyzing", AnalyzePrompt(in), schema.AnalyzeShape.Output, &out), nil
}

// Generate runs generate_architecture.
func (s *Service) Generate(ctx context.Context, args map[string]any) (Envelope, error) {
	in, err := schema.ParseGenerateInput(args)
	if err != nil {
		return Envelope{}, err
	}
	var out schema.ArchitectureDesign
	return s.run(ctx, "generating", GeneratePrompt(in), schema.GenerateShape.Output, &out), nil
}

// Evaluate runs evaluate_architecture.
func (s *Service) Evaluate(ctx context.Context, args map[string]any) (Envelope, error) {
	in, err := schema.ParseEvaluateInput(args)
	if err != nil {
		return Envelope{}, err
	}
	var out schema.ArchitectureEvaluation
	return s.run(ctx, "evaluating", EvaluatePrompt(in), schema.EvaluateShape.Output, &out), nil
}

// run invokes the model and renders the typed result into dst's canonical
// JSON form.
func (s *Service) run(ctx context.Context, verb string, conv gateway.Conversation, out *schema.Validator, dst any) Envelope {
	res, err := s.model.Invoke(ctx, conv, out)
	if err != nil {
		return failure(verb, err)
	}
	if err := schema.Decode(res.Object, dst); err != nil {
		return failure(verb, &gateway.SchemaMismatchError{Reason: "decode output", Err: err})
	}
	return textEnvelope(indentJSON(dst))
}

func failure(verb string, err error) Envelope {
	cause := err.Error()
	if cause == "" {
		cause = "Unknown error occurred"
	}
	kind := outcomeUpstream
	var mismatch *gateway.SchemaMismatchError
	if errors.As(err, &mismatch) {
		kind = outcomeModel
	}
	return errorEnvelope(kind, "Error "+verb+" architecture: "+cause, err)
}
