package architect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashita-ai/architect/internal/gateway"
	"github.com/ashita-ai/architect/internal/schema"
)

// SystemPrompt is sent with every operation.
const SystemPrompt = "You are an expert software architect. Help users analyze, generate, and evaluate software architectures."

const analyzeTemplate = `Please analyze this architecture:
Description: %s
Requirements: %s
Constraints: %s
Domain: %s

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
   - Performance`

const generateTemplate = `Please generate an architecture design with these requirements:
Requirements: %s
Style: %s
Domain: %s

Please provide a complete architecture design with:
1. Overview (style, principles, constraints)
2. Components (each with id, name, type, description, responsibilities, interfaces)
3. Relationships between components
4. Design patterns used
5. Deployment strategy
6. Quality attributes`

const evaluateTemplate = `Please evaluate this architecture:
Architecture: %s
Evaluation Criteria: %s
Domain: %s

Please provide a comprehensive evaluation with:
1. Summary (overall score, strengths, weaknesses, critical findings)
2. Detailed metrics (with scores, findings, and recommendations)
3. Risk assessment
4. Compliance checks
5. Short-term and long-term recommendations`

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

// AnalyzePrompt builds the conversation for analyze_architecture.
func AnalyzePrompt(in schema.AnalyzeInput) gateway.Conversation {
	constraints := "None"
	if len(in.Constraints) > 0 {
		constraints = joinList(in.Constraints)
	}
	return gateway.Conversation{
		System: SystemPrompt,
		User:   fmt.Sprintf(analyzeTemplate, in.Description, joinList(in.Requirements), constraints, in.Domain),
	}
}

// GeneratePrompt builds the conversation for generate_architecture.
func GeneratePrompt(in schema.GenerateInput) gateway.Conversation {
	style := in.Style
	if style == "" {
		style = schema.DefaultStyle
	}
	return gateway.Conversation{
		System: SystemPrompt,
		User:   fmt.Sprintf(generateTemplate, joinList(in.Requirements), style, in.Domain),
	}
}

// EvaluatePrompt builds the conversation for evaluate_architecture. The
// architecture is rendered as indented JSON.
func EvaluatePrompt(in schema.EvaluateInput) gateway.Conversation {
	return gateway.Conversation{
		System: SystemPrompt,
		User:   fmt.Sprintf(evaluateTemplate, indentJSON(in.Architecture), joinList(in.Criteria), in.Domain),
	}
}

// indentJSON serializes v with two-space indentation and no HTML escaping.
// Values decoded from JSON always re-encode, so the error path only covers
// values built in code.
func indentJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
