package gateway_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/architect/internal/gateway"
	"github.com/ashita-ai/architect/internal/schema"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const validAnalysis = `{
	"strengths": ["clear layering"],
	"weaknesses": ["single database"],
	"recommendations": ["add read replicas"],
	"complianceScore": 0.8,
	"qualityMetrics": {"maintainability": 0.7, "scalability": 0.5,
		"reliability": 0.6, "security": 0.9, "performance": 0.4}
}`

var conv = gateway.Conversation{System: "sys", User: "user"}

func TestInvoke_StructuredSuccess(t *testing.T) {
	var got gateway.Request
	calls := 0
	gw := gateway.New(gateway.BackendFunc(func(_ context.Context, req gateway.Request) (string, error) {
		calls++
		got = req
		return validAnalysis, nil
	}), testLogger())

	res, err := gw.Invoke(context.Background(), conv, schema.AnalyzeShape.Output)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "sys", got.System)
	assert.Equal(t, "user", got.User)
	assert.Same(t, schema.AnalyzeShape.Output.Schema(), got.Schema)
	assert.Equal(t, gateway.SchemaName, got.SchemaName)

	obj, ok := res.Object.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.8, obj["complianceScore"])
}

func TestInvoke_FreeText(t *testing.T) {
	gw := gateway.New(gateway.BackendFunc(func(_ context.Context, req gateway.Request) (string, error) {
		assert.Nil(t, req.Schema)
		return "just words", nil
	}), testLogger())

	res, err := gw.Invoke(context.Background(), conv, nil)
	require.NoError(t, err)
	assert.Equal(t, "just words", res.Text)
	assert.Nil(t, res.Object)
}

func TestInvoke_StripsCodeFence(t *testing.T) {
	gw := gateway.New(gateway.BackendFunc(func(context.Context, gateway.Request) (string, error) {
		return "```json\n" + validAnalysis + "\n```", nil
	}), testLogger())

	res, err := gw.Invoke(context.Background(), conv, schema.AnalyzeShape.Output)
	require.NoError(t, err)
	assert.NotNil(t, res.Object)
}

func TestInvoke_NotJSON(t *testing.T) {
	gw := gateway.New(gateway.BackendFunc(func(context.Context, gateway.Request) (string, error) {
		return "I think the architecture is fine.", nil
	}), testLogger())

	_, err := gw.Invoke(context.Background(), conv, schema.AnalyzeShape.Output)
	var mismatch *gateway.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch), "got %T", err)
	assert.Contains(t, err.Error(), "output is not JSON")
}

func TestInvoke_MissingRequiredField(t *testing.T) {
	calls := 0
	gw := gateway.New(gateway.BackendFunc(func(context.Context, gateway.Request) (string, error) {
		calls++
		return `{"strengths": [], "weaknesses": [], "recommendations": [],
			"qualityMetrics": {"maintainability": 1, "scalability": 1,
				"reliability": 1, "security": 1, "performance": 1}}`, nil
	}), testLogger())

	_, err := gw.Invoke(context.Background(), conv, schema.AnalyzeShape.Output)
	var mismatch *gateway.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "complianceScore", verr.Violations[0].Path)
	assert.Equal(t, 1, calls, "schema mismatches are not retried")
}

func TestInvoke_WrapsBackendFailure(t *testing.T) {
	cause := errors.New("connection refused")
	gw := gateway.New(gateway.BackendFunc(func(context.Context, gateway.Request) (string, error) {
		return "", cause
	}), testLogger())

	_, err := gw.Invoke(context.Background(), conv, schema.AnalyzeShape.Output)
	var upstream *gateway.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.ErrorIs(t, err, cause)
}

func TestInvoke_KeepsTypedBackendErrors(t *testing.T) {
	gw := gateway.New(gateway.BackendFunc(func(context.Context, gateway.Request) (string, error) {
		return "", gateway.Refusal("func", "policy")
	}), testLogger())

	_, err := gw.Invoke(context.Background(), conv, schema.AnalyzeShape.Output)
	var mismatch *gateway.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "model output does not match schema: refused: policy", err.Error())
}

func TestInvoke_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw := gateway.New(gateway.BackendFunc(func(ctx context.Context, _ gateway.Request) (string, error) {
		return "", ctx.Err()
	}), testLogger())

	_, err := gw.Invoke(ctx, conv, nil)
	var upstream *gateway.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.ErrorIs(t, err, context.Canceled)
}
