package schema

import (
	"fmt"
)

// Shape pairs the input validator of an operation with the output
// validator the model's answer must satisfy.
type Shape struct {
	Input  *Validator
	Output *Validator
}

func styleNames() []string {
	names := make([]string, len(Styles))
	for i, s := range Styles {
		names[i] = string(s)
	}
	return names
}

var (
	analyzeInput = Object("Arguments of analyze_architecture",
		Prop("description", String("Description of the architecture to analyze")),
		Prop("requirements", Strings("List of system requirements").NonEmpty()),
		OptionalProp("constraints", Strings("List of system constraints")),
		Prop("domain", String("Business domain of the system")),
	)

	analyzeOutput = Record("Structured analysis of an architecture",
		Prop("strengths", Strings("Key strengths")),
		Prop("weaknesses", Strings("Potential weaknesses")),
		Prop("recommendations", Strings("Specific recommendations")),
		Prop("complianceScore", Number("Compliance score between 0 and 1")),
		Prop("qualityMetrics", Record("Quality metric scores",
			Prop("maintainability", Number("")),
			Prop("scalability", Number("")),
			Prop("reliability", Number("")),
			Prop("security", Number("")),
			Prop("performance", Number("")),
		)),
	)

	generateStyle = func() *Schema {
		s := Enum("Architectural style", styleNames()...)
		s.Default = string(DefaultStyle)
		return s
	}()

	generateInput = Object("Arguments of generate_architecture",
		Prop("requirements", Strings("List of system requirements").NonEmpty()),
		OptionalProp("style", generateStyle),
		Prop("domain", String("Business domain of the system")),
	)

	generateOutput = Record("Generated architecture design",
		Prop("overview", Record("",
			Prop("style", String("")),
			Prop("principles", Strings("")),
			Prop("constraints", Strings("")),
		)),
		Prop("components", Array(Record("",
			Prop("id", String("")),
			Prop("name", String("")),
			Prop("type", String("")),
			Prop("description", String("")),
			Prop("responsibilities", Strings("")),
			Prop("interfaces", Record("",
				Prop("input", Strings("")),
				Prop("output", Strings("")),
			)),
		), "")),
		Prop("relationships", Array(Record("",
			Prop("source", String("Source component id")),
			Prop("target", String("Target component id")),
			Prop("type", String("")),
			Prop("description", String("")),
		), "")),
		Prop("patterns", Array(Record("",
			Prop("name", String("")),
			Prop("context", String("")),
			Prop("benefits", Strings("")),
			Prop("tradeoffs", Strings("")),
		), "")),
		Prop("deploymentStrategy", Record("",
			Prop("environment", String("")),
			Prop("requirements", Strings("")),
			Prop("steps", Strings("")),
		)),
		Prop("qualityAttributes", MapOf(Record("",
			Prop("description", String("")),
			Prop("measures", Strings("")),
		), "Quality attributes keyed by name")),
	)

	evaluateInput = Object("Arguments of evaluate_architecture",
		Prop("architecture", Opaque("Architecture design to evaluate")),
		Prop("criteria", Strings("Evaluation criteria").NonEmpty()),
		Prop("domain", String("Business domain of the system")),
	)

	evaluateOutput = Record("Evaluation of an architecture",
		Prop("summary", Record("",
			Prop("overallScore", Number("")),
			Prop("strengths", Strings("")),
			Prop("weaknesses", Strings("")),
			Prop("criticalFindings", Strings("")),
		)),
		Prop("metrics", Array(Record("",
			Prop("name", String("")),
			Prop("score", Number("")),
			Prop("description", String("")),
			Prop("findings", Strings("")),
			Prop("recommendations", Strings("")),
		), "")),
		Prop("risks", Array(Record("",
			Prop("level", Enum("", string(RiskLow), string(RiskMedium), string(RiskHigh))),
			Prop("description", String("")),
			Prop("mitigations", Strings("")),
		), "")),
		Prop("compliance", Array(Record("",
			Prop("standard", String("")),
			Prop("compliant", Boolean("")),
			Prop("gaps", Strings("")),
			Prop("remediation", Strings("")),
		), "")),
		Prop("recommendations", Record("",
			Prop("shortTerm", Strings("")),
			Prop("longTerm", Strings("")),
		)),
	)
)

// Operation shapes.
var (
	AnalyzeShape  = Shape{Input: MustCompile(analyzeInput), Output: MustCompile(analyzeOutput)}
	GenerateShape = Shape{Input: MustCompile(generateInput), Output: MustCompile(generateOutput)}
	EvaluateShape = Shape{Input: MustCompile(evaluateInput), Output: MustCompile(evaluateOutput)}
)

// ParseAnalyzeInput validates args and returns the typed input.
func ParseAnalyzeInput(args map[string]any) (AnalyzeInput, error) {
	var in AnalyzeInput
	if err := AnalyzeShape.Input.Decode(args, &in); err != nil {
		return AnalyzeInput{}, fmt.Errorf("invalid arguments: %w", err)
	}
	return in, nil
}

// ParseGenerateInput validates args and returns the typed input. An absent
// or empty style becomes DefaultStyle.
func ParseGenerateInput(args map[string]any) (GenerateInput, error) {
	if s, ok := args["style"].(string); ok && s == "" {
		trimmed := make(map[string]any, len(args))
		for k, v := range args {
			if k != "style" {
				trimmed[k] = v
			}
		}
		args = trimmed
	}
	var in GenerateInput
	if err := GenerateShape.Input.Decode(args, &in); err != nil {
		return GenerateInput{}, fmt.Errorf("invalid arguments: %w", err)
	}
	if in.Style == "" {
		in.Style = DefaultStyle
	}
	return in, nil
}

// ParseEvaluateInput validates args and returns the typed input.
func ParseEvaluateInput(args map[string]any) (EvaluateInput, error) {
	var in EvaluateInput
	if err := EvaluateShape.Input.Decode(args, &in); err != nil {
		return EvaluateInput{}, fmt.Errorf("invalid arguments: %w", err)
	}
	return in, nil
}
