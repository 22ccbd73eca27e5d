// Package schema declares the input and output shapes of every architect
// operation and validates documents against them.
//
// A Schema is a JSON Schema document. The same value is sent to the model
// as the structured-output contract and used locally to validate whatever
// the model returns, so the two can never drift apart.
package schema

import (
	"encoding/json"
)

// Type is a JSON Schema primitive type name.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Schema is the subset of JSON Schema the registry needs.
type Schema struct {
	Type        Type               `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Default     any                `json:"default,omitempty"`
	MinItems    *int               `json:"minItems,omitempty"`

	// AdditionalProperties is nil (unconstrained), a bool, or a *Schema
	// describing the values of a catch-all map.
	AdditionalProperties any `json:"additionalProperties,omitempty"`

	// order preserves declaration order for discovery output.
	order []string
}

// Property is one named member of an object schema.
type Property struct {
	Name     string
	Schema   *Schema
	Required bool
}

// Prop declares a required property.
func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s, Required: true}
}

// OptionalProp declares a property that may be absent.
func OptionalProp(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

// String returns a string schema.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Number returns a number schema.
func Number(description string) *Schema {
	return &Schema{Type: TypeNumber, Description: description}
}

// Boolean returns a boolean schema.
func Boolean(description string) *Schema {
	return &Schema{Type: TypeBoolean, Description: description}
}

// Enum returns a string schema restricted to values.
func Enum(description string, values ...string) *Schema {
	return &Schema{Type: TypeString, Description: description, Enum: values}
}

// Array returns an array schema whose elements match items.
func Array(items *Schema, description string) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: items}
}

// Strings returns an array-of-strings schema.
func Strings(description string) *Schema {
	return Array(&Schema{Type: TypeString}, description)
}

// NonEmpty requires at least one element in an array schema. It returns s
// for chaining.
func (s *Schema) NonEmpty() *Schema {
	one := 1
	s.MinItems = &one
	return s
}

// Object returns an open object schema: properties other than the declared
// ones are tolerated.
func Object(description string, props ...Property) *Schema {
	s := &Schema{
		Type:        TypeObject,
		Description: description,
		Properties:  make(map[string]*Schema, len(props)),
	}
	for _, p := range props {
		s.Properties[p.Name] = p.Schema
		s.order = append(s.order, p.Name)
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

// Record returns a closed object schema in which every property is
// required. Model outputs are declared as records.
func Record(description string, props ...Property) *Schema {
	for i := range props {
		props[i].Required = true
	}
	s := Object(description, props...)
	s.AdditionalProperties = false
	return s
}

// MapOf returns an object schema with arbitrary keys whose values all
// match value.
func MapOf(value *Schema, description string) *Schema {
	return &Schema{
		Type:                 TypeObject,
		Description:          description,
		Properties:           map[string]*Schema{},
		AdditionalProperties: value,
	}
}

// Opaque returns an object schema whose members are not inspected.
func Opaque(description string) *Schema {
	return &Schema{Type: TypeObject, Description: description}
}

// PropertyNames returns the declared property names in declaration order.
func (s *Schema) PropertyNames() []string {
	return append([]string(nil), s.order...)
}

// IsRequired reports whether name is a required property of s.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// StrictCompatible reports whether s fits the strict structured-output
// dialect: every object closed, every property required, and no keywords
// beyond type, description, enum, items and properties.
func (s *Schema) StrictCompatible() bool {
	if s == nil {
		return true
	}
	if s.MinItems != nil || s.Default != nil {
		return false
	}
	if s.Type == TypeObject {
		if allowed, ok := s.AdditionalProperties.(bool); !ok || allowed {
			return false
		}
		if len(s.Required) != len(s.Properties) {
			return false
		}
	}
	for _, p := range s.Properties {
		if !p.StrictCompatible() {
			return false
		}
	}
	return s.Items.StrictCompatible()
}

// MarshalJSON encodes s as a JSON Schema document.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	return json.Marshal((*plain)(s))
}
