package schema_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/architect/internal/schema"
)

// decodeJSON turns a JSON literal into the generic value a transport
// would hand to the registry.
func decodeJSON(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func violationPaths(t *testing.T, err error) []string {
	t.Helper()
	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr), "expected *schema.ValidationError, got %T: %v", err, err)
	paths := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		paths[i] = v.Path
	}
	return paths
}

func TestParseAnalyzeInput_HappyPath(t *testing.T) {
	in, err := schema.ParseAnalyzeInput(decodeJSON(t, `{
		"description": "three-tier web app",
		"requirements": ["low latency", "audit logging"],
		"domain": "finance"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "three-tier web app", in.Description)
	assert.Equal(t, []string{"low latency", "audit logging"}, in.Requirements)
	assert.Empty(t, in.Constraints)
	assert.Equal(t, "finance", in.Domain)
}

func TestParseAnalyzeInput_IgnoresUnknownArguments(t *testing.T) {
	_, err := schema.ParseAnalyzeInput(decodeJSON(t, `{
		"description": "d", "requirements": ["r"], "domain": "x", "verbose": true
	}`))
	assert.NoError(t, err)
}

func TestParseAnalyzeInput_ReportsEveryViolation(t *testing.T) {
	_, err := schema.ParseAnalyzeInput(decodeJSON(t, `{
		"description": 42,
		"constraints": "not a list"
	}`))
	require.Error(t, err)
	assert.ElementsMatch(t,
		[]string{"description", "requirements", "constraints", "domain"},
		violationPaths(t, err))
	assert.Contains(t, err.Error(), "invalid arguments: ")
	assert.Contains(t, err.Error(), "requirements: is required")
}

func TestParseAnalyzeInput_EmptyRequirements(t *testing.T) {
	_, err := schema.ParseAnalyzeInput(decodeJSON(t, `{
		"description": "d", "requirements": [], "domain": "x"
	}`))
	require.Error(t, err)
	assert.Equal(t, []string{"requirements"}, violationPaths(t, err))
}

func TestParseAnalyzeInput_WrongElementType(t *testing.T) {
	_, err := schema.ParseAnalyzeInput(decodeJSON(t, `{
		"description": "d", "requirements": ["ok", 7], "domain": "x"
	}`))
	require.Error(t, err)
	assert.Equal(t, []string{"requirements.1"}, violationPaths(t, err))
}

func TestParseGenerateInput_DefaultsStyle(t *testing.T) {
	for _, raw := range []string{
		`{"requirements": ["must support 10k users"], "domain": "retail"}`,
		`{"requirements": ["must support 10k users"], "domain": "retail", "style": ""}`,
	} {
		in, err := schema.ParseGenerateInput(decodeJSON(t, raw))
		require.NoError(t, err)
		assert.Equal(t, schema.StyleMicroservices, in.Style)
	}
}

func TestParseGenerateInput_KnownStyle(t *testing.T) {
	in, err := schema.ParseGenerateInput(decodeJSON(t, `{
		"requirements": ["r"], "domain": "x", "style": "pipe-and-filter"
	}`))
	require.NoError(t, err)
	assert.Equal(t, schema.StylePipeAndFilter, in.Style)
}

func TestParseGenerateInput_RejectsUnknownStyle(t *testing.T) {
	_, err := schema.ParseGenerateInput(decodeJSON(t, `{
		"requirements": ["r"], "domain": "x", "style": "spaghetti"
	}`))
	require.Error(t, err)
	assert.Equal(t, []string{"style"}, violationPaths(t, err))
}

func TestParseEvaluateInput_ArchitectureIsOpaque(t *testing.T) {
	in, err := schema.ParseEvaluateInput(decodeJSON(t, `{
		"architecture": {"anything": [1, {"nested": null}], "x": "y"},
		"criteria": ["security", "scalability"],
		"domain": "health"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "y", in.Architecture["x"])
	assert.Equal(t, []string{"security", "scalability"}, in.Criteria)
}

func TestParseEvaluateInput_ArchitectureMustBeObject(t *testing.T) {
	_, err := schema.ParseEvaluateInput(decodeJSON(t, `{
		"architecture": "microservices", "criteria": ["c"], "domain": "x"
	}`))
	require.Error(t, err)
	assert.Equal(t, []string{"architecture"}, violationPaths(t, err))
}

func TestAnalyzeOutput_MissingComplianceScore(t *testing.T) {
	err := schema.AnalyzeShape.Output.Validate(decodeJSON(t, `{
		"strengths": [], "weaknesses": [], "recommendations": [],
		"qualityMetrics": {"maintainability": 0.1, "scalability": 0.2,
			"reliability": 0.3, "security": 0.4, "performance": 0.5}
	}`))
	require.Error(t, err)
	assert.Equal(t, []string{"complianceScore"}, violationPaths(t, err))
}

func TestAnalyzeOutput_RejectsExtraField(t *testing.T) {
	err := schema.AnalyzeShape.Output.Validate(decodeJSON(t, `{
		"strengths": [], "weaknesses": [], "recommendations": [],
		"complianceScore": 0.5,
		"qualityMetrics": {"maintainability": 0.1, "scalability": 0.2,
			"reliability": 0.3, "security": 0.4, "performance": 0.5, "cost": 1}
	}`))
	require.Error(t, err)
	assert.Equal(t, []string{"qualityMetrics.cost"}, violationPaths(t, err))
}

func TestGenerateOutput_QualityAttributeValuesAreChecked(t *testing.T) {
	doc := decodeJSON(t, `{
		"overview": {"style": "layered", "principles": [], "constraints": []},
		"components": [], "relationships": [], "patterns": [],
		"deploymentStrategy": {"environment": "k8s", "requirements": [], "steps": []},
		"qualityAttributes": {"availability": {"description": "99.9%", "measures": ["uptime"]}}
	}`)
	require.NoError(t, schema.GenerateShape.Output.Validate(doc))

	doc["qualityAttributes"] = map[string]any{"availability": map[string]any{"description": "99.9%"}}
	err := schema.GenerateShape.Output.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, []string{"qualityAttributes.availability.measures"}, violationPaths(t, err))
}

func TestEvaluateOutput_RiskLevelEnum(t *testing.T) {
	doc := decodeJSON(t, `{
		"summary": {"overallScore": 0.7, "strengths": [], "weaknesses": [], "criticalFindings": []},
		"metrics": [],
		"risks": [{"level": "severe", "description": "d", "mitigations": []}],
		"compliance": [],
		"recommendations": {"shortTerm": [], "longTerm": []}
	}`)
	err := schema.EvaluateShape.Output.Validate(doc)
	require.Error(t, err)
	assert.Equal(t, []string{"risks.0.level"}, violationPaths(t, err))
}

func TestValidationError_CapsMessage(t *testing.T) {
	err := &schema.ValidationError{}
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		err.Violations = append(err.Violations, schema.FieldViolation{Path: p, Message: "is required"})
	}
	assert.Equal(t,
		"a: is required; b: is required; c: is required; d: is required; e: is required (and 2 more)",
		err.Error())
}

func TestStrictCompatible(t *testing.T) {
	assert.True(t, schema.AnalyzeShape.Output.Schema().StrictCompatible())
	assert.True(t, schema.EvaluateShape.Output.Schema().StrictCompatible())
	// qualityAttributes is a catch-all map.
	assert.False(t, schema.GenerateShape.Output.Schema().StrictCompatible())
	assert.False(t, schema.AnalyzeShape.Input.Schema().StrictCompatible())
}

func TestSchema_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(schema.GenerateShape.Input.Schema())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.ElementsMatch(t, []any{"requirements", "domain"}, doc["required"])

	props := doc["properties"].(map[string]any)
	style := props["style"].(map[string]any)
	assert.Equal(t, "microservices", style["default"])
	assert.Len(t, style["enum"], len(schema.Styles))
	assert.EqualValues(t, 1, props["requirements"].(map[string]any)["minItems"])
}

func TestSchema_PropertyNamesKeepDeclarationOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"description", "requirements", "constraints", "domain"},
		schema.AnalyzeShape.Input.Schema().PropertyNames())
}
