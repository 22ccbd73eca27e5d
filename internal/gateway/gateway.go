// Package gateway is the only part of architect that talks to a language
// model. It sends one conversation per call, optionally constrained to an
// output schema, and classifies every failure as a schema mismatch or an
// upstream error.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashita-ai/architect/internal/schema"
	"github.com/ashita-ai/architect/internal/telemetry"
)

// SchemaName is the name under which output schemas are sent to providers
// that require one.
const SchemaName = "architecture"

// Conversation is the text sent to the model.
type Conversation struct {
	System string
	User   string
}

// Request is what a Backend receives. Schema is nil for free-text calls.
type Request struct {
	Conversation
	Schema     *schema.Schema
	SchemaName string
}

// Backend performs exactly one completion against a model provider and
// returns the raw text of the answer.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, req Request) (string, error)

func (f BackendFunc) Name() string { return "func" }

func (f BackendFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Result holds the outcome of Invoke. Object is set only when an output
// schema was supplied; it is the validated JSON document.
type Result struct {
	Text   string
	Object any
}

// Gateway wraps a Backend with output validation and telemetry. It holds no
// per-call state and is safe for concurrent use.
type Gateway struct {
	backend  Backend
	logger   *slog.Logger
	tracer   trace.Tracer
	duration metric.Float64Histogram
}

// New creates a Gateway over backend.
func New(backend Backend, logger *slog.Logger) *Gateway {
	meter := telemetry.Meter("architect/gateway")
	dur, _ := meter.Float64Histogram("architect.gateway.duration",
		metric.WithDescription("Time spent in model calls (ms)"),
		metric.WithUnit("ms"),
	)
	return &Gateway{
		backend:  backend,
		logger:   logger,
		tracer:   telemetry.Tracer("architect/gateway"),
		duration: dur,
	}
}

// Backend returns the name of the underlying backend.
func (g *Gateway) Backend() string {
	return g.backend.Name()
}

// Invoke sends conv to the model. With a non-nil out, generation is
// constrained to out's schema and the answer must parse and validate
// against it; otherwise the raw text is returned.
func (g *Gateway) Invoke(ctx context.Context, conv Conversation, out *schema.Validator) (Result, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.invoke",
		trace.WithAttributes(
			attribute.String("architect.backend", g.backend.Name()),
			attribute.Bool("architect.structured", out != nil),
		),
	)
	defer span.End()

	start := time.Now()
	res, err := g.invoke(ctx, conv, out)
	elapsed := time.Since(start)

	outcome := outcomeOf(err)
	g.duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(
		attribute.String("backend", g.backend.Name()),
		attribute.String("outcome", outcome),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		g.logger.Warn("gateway: model call failed",
			"backend", g.backend.Name(),
			"outcome", outcome,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return Result{}, err
	}
	g.logger.Debug("gateway: model call completed",
		"backend", g.backend.Name(),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, nil
}

func (g *Gateway) invoke(ctx context.Context, conv Conversation, out *schema.Validator) (Result, error) {
	req := Request{Conversation: conv}
	if out != nil {
		req.Schema = out.Schema()
		req.SchemaName = SchemaName
	}

	text, err := g.backend.Complete(ctx, req)
	if err != nil {
		return Result{}, classify(g.backend.Name(), err)
	}
	if out == nil {
		return Result{Text: text}, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(stripFences(text)), &doc); err != nil {
		return Result{}, &SchemaMismatchError{Backend: g.backend.Name(), Reason: "output is not JSON", Err: err}
	}
	if err := out.Validate(doc); err != nil {
		return Result{}, &SchemaMismatchError{Backend: g.backend.Name(), Err: err}
	}
	return Result{Text: text, Object: doc}, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// emit even in JSON mode.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

func outcomeOf(err error) string {
	var mismatch *SchemaMismatchError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &mismatch):
		return "schema_mismatch"
	default:
		return "upstream"
	}
}
