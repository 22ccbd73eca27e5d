package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxReportedViolations caps how many field violations appear in an error
// message. The full list stays available on ValidationError.Violations.
const maxReportedViolations = 5

// rootField is how gojsonschema names the document root.
const rootField = "(root)"

// FieldViolation is one failed constraint at a dotted document path.
type FieldViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a document. Its message
// joins the first few violations; callers add their own context prefix.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	shown := e.Violations
	if len(shown) > maxReportedViolations {
		shown = shown[:maxReportedViolations]
	}
	parts := make([]string, len(shown))
	for i, v := range shown {
		if v.Path == "" {
			parts[i] = v.Message
			continue
		}
		parts[i] = v.Path + ": " + v.Message
	}
	msg := strings.Join(parts, "; ")
	if extra := len(e.Violations) - len(shown); extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Validator checks documents against a compiled schema.
type Validator struct {
	schema   *Schema
	compiled *gojsonschema.Schema
}

// Compile prepares s for validation.
func Compile(s *Schema) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s))
	if err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}
	return &Validator{schema: s, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. It is meant for the
// package-level registry, whose schemas are fixed at build time.
func MustCompile(s *Schema) *Validator {
	v, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Schema returns the descriptor the validator was compiled from.
func (v *Validator) Schema() *Schema {
	return v.schema
}

// Validate checks doc, a value decoded from JSON, against the schema. It
// returns a *ValidationError when doc does not conform.
func (v *Validator) Validate(doc any) error {
	result, err := v.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationError{Violations: []FieldViolation{{Message: "document is not valid JSON: " + err.Error()}}}
	}
	if result.Valid() {
		return nil
	}
	violations := make([]FieldViolation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, violationFor(re))
	}
	return &ValidationError{Violations: violations}
}

// Decode validates doc and then decodes it into dst.
func (v *Validator) Decode(doc any, dst any) error {
	if err := v.Validate(doc); err != nil {
		return err
	}
	return Decode(doc, dst)
}

// Decode converts a generic JSON document into dst without validating it.
func Decode(doc any, dst any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("schema: encode document: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("schema: decode document: %w", err)
	}
	return nil
}

func violationFor(re gojsonschema.ResultError) FieldViolation {
	path := re.Field()
	if path == rootField {
		path = ""
	}
	switch re.Type() {
	case "required":
		return FieldViolation{Path: joinPath(path, detail(re, "property")), Message: "is required"}
	case "additional_property_not_allowed":
		return FieldViolation{Path: joinPath(path, detail(re, "property")), Message: "is not allowed"}
	}
	return FieldViolation{Path: path, Message: re.Description()}
}

func detail(re gojsonschema.ResultError, key string) string {
	if v, ok := re.Details()[key].(string); ok {
		return v
	}
	return ""
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "", parent == child, strings.HasSuffix(parent, "."+child):
		return parent
	}
	return parent + "." + child
}
