package architect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashita-ai/architect/internal/architect"
	"github.com/ashita-ai/architect/internal/schema"
)

func TestAnalyzePrompt(t *testing.T) {
	conv := architect.AnalyzePrompt(schema.AnalyzeInput{
		Description:  "event sourced ledger",
		Requirements: []string{"auditability", "low latency"},
		Constraints:  []string{"on-prem only"},
		Domain:       "banking",
	})
	assert.Equal(t, architect.SystemPrompt, conv.System)
	assert.Equal(t, `Please analyze this architecture:
Description: event sourced ledger
Requirements: auditability, low latency
Constraints: on-prem only
Domain: banking

Please provide a structured analysis with:
1. Key strengths
2. Potential weaknesses
3. Specific recommendations
4. A compliance score (0-1)
5. Quality metrics for:
   - Maintainability
   - Scalability
   - Reliability
   - Security
   - Performance`, conv.User)
}

func TestAnalyzePrompt_NoConstraints(t *testing.T) {
	conv := architect.AnalyzePrompt(schema.AnalyzeInput{Description: "d", Requirements: []string{"r"}, Domain: "x"})
	assert.Contains(t, conv.User, "\nConstraints: None\n")
}

func TestGeneratePrompt(t *testing.T) {
	conv := architect.GeneratePrompt(schema.GenerateInput{
		Requirements: []string{"must support 10k users"},
		Style:        schema.StyleEventDriven,
		Domain:       "retail",
	})
	assert.Contains(t, conv.User, "Please generate an architecture design with these requirements:\n"+
		"Requirements: must support 10k users\nStyle: event-driven\nDomain: retail\n")
	assert.Contains(t, conv.User, "6. Quality attributes")

	conv = architect.GeneratePrompt(schema.GenerateInput{Requirements: []string{"r"}, Domain: "x"})
	assert.Contains(t, conv.User, "Style: microservices")
}

func TestEvaluatePrompt(t *testing.T) {
	conv := architect.EvaluatePrompt(schema.EvaluateInput{
		Architecture: map[string]any{"gateway": "<nginx>", "replicas": 3.0},
		Criteria:     []string{"security", "scalability"},
		Domain:       "health",
	})
	assert.Contains(t, conv.User, "Please evaluate this architecture:\nArchitecture: {\n  \"gateway\": \"<nginx>\",\n  \"replicas\": 3\n}\n")
	assert.Contains(t, conv.User, "Evaluation Criteria: security, scalability\nDomain: health\n")
}
