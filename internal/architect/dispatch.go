package architect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ashita-ai/architect/internal/schema"
	"github.com/ashita-ai/architect/internal/telemetry"
)

// Operation names.
const (
	OpAnalyze  = "analyze_architecture"
	OpGenerate = "generate_architecture"
	OpEvaluate = "evaluate_architecture"
)

// Handler runs one operation. A returned error means the arguments were
// rejected; model failures are reported inside the envelope.
type Handler func(ctx context.Context, args map[string]any) (Envelope, error)

// Operation describes a registered operation for discovery.
type Operation struct {
	Name        string
	Description string
	Input       *schema.Schema

	handler Handler
}

// Param is one top-level argument of an operation.
type Param struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
}

// Params lists the operation's arguments in declaration order.
func (o Operation) Params() []Param {
	names := o.Input.PropertyNames()
	params := make([]Param, 0, len(names))
	for _, name := range names {
		p := o.Input.Properties[name]
		params = append(params, Param{
			Name:        name,
			Description: p.Description,
			Type:        string(p.Type),
			Required:    o.Input.IsRequired(name),
		})
	}
	return params
}

// Dispatcher maps operation names to handlers. The operation table is
// fixed at construction and read-only afterwards.
type Dispatcher struct {
	ops    []Operation
	byName map[string]int
	logger *slog.Logger
	calls  metric.Int64Counter
}

// NewDispatcher registers the three architecture operations backed by svc.
func NewDispatcher(svc *Service, logger *slog.Logger) *Dispatcher {
	return newDispatcher(logger, []Operation{
		{
			Name:        OpAnalyze,
			Description: "Perform a comprehensive analysis of a software architecture",
			Input:       schema.AnalyzeShape.Input.Schema(),
			handler:     svc.Analyze,
		},
		{
			Name:        OpGenerate,
			Description: "Generate a software architecture design based on requirements",
			Input:       schema.GenerateShape.Input.Schema(),
			handler:     svc.Generate,
		},
		{
			Name:        OpEvaluate,
			Description: "Evaluate an architecture design against specific criteria",
			Input:       schema.EvaluateShape.Input.Schema(),
			handler:     svc.Evaluate,
		},
	})
}

func newDispatcher(logger *slog.Logger, ops []Operation) *Dispatcher {
	meter := telemetry.Meter("architect/dispatch")
	calls, _ := meter.Int64Counter("architect.dispatch.count",
		metric.WithDescription("Operation calls by outcome"),
	)
	byName := make(map[string]int, len(ops))
	for i, op := range ops {
		byName[op.Name] = i
	}
	return &Dispatcher{ops: ops, byName: byName, logger: logger, calls: calls}
}

// Operations lists every registered operation in registration order.
func (d *Dispatcher) Operations() []Operation {
	return append([]Operation(nil), d.ops...)
}

// Dispatch runs the named operation. It always returns an envelope: unknown
// operations, missing arguments, rejected arguments and handler panics are
// all reported as error envelopes.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) Envelope {
	callID := uuid.New()
	start := time.Now()

	env := d.dispatch(ctx, name, args)

	d.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", name),
		attribute.String("outcome", string(env.outcome)),
	))
	level := slog.LevelInfo
	if env.IsError {
		level = slog.LevelWarn
	}
	d.logger.Log(ctx, level, "dispatch: call finished",
		"call_id", callID,
		"operation", name,
		"outcome", env.outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return env
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args map[string]any) (env Envelope) {
	i, ok := d.byName[name]
	if !ok {
		return executionFailed(outcomeProtocol, &UnknownOperationError{Name: name})
	}
	if args == nil {
		return errorEnvelope(outcomeProtocol, sentence(ErrMissingArguments), ErrMissingArguments)
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch: handler panicked", "operation", name, "panic", r)
			env = executionFailed(outcomeInternal, fmt.Errorf("internal error: %v", r))
		}
	}()

	env, err := d.ops[i].handler(ctx, args)
	if err != nil {
		kind := outcomeProtocol
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			kind = outcomeValidation
		}
		return executionFailed(kind, err)
	}
	return env
}

func executionFailed(kind outcome, err error) Envelope {
	msg := err.Error()
	var unknown *UnknownOperationError
	if errors.As(err, &unknown) {
		msg = sentence(err)
	}
	return errorEnvelope(kind, "Tool execution failed: "+msg, err)
}
