// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FieldSpec describes the expected shape of one content field. Specs nest:
// list fields describe their element through Item, map fields describe
// their members through Fields.
// Implements: prd005-templates R2.1.
type FieldSpec struct {
	// Type is one of "string", "number", "bool", "list", "map", "any".
	Type string `json:"type" yaml:"type"`

	// Required marks the field as mandatory at its level.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Item describes the element type of a list field.
	Item *FieldSpec `json:"item,omitempty" yaml:"item,omitempty"`

	// Fields describes the members of a map field.
	Fields map[string]FieldSpec `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Schema is the content contract of a template: a field spec per top-level
// content key.
type Schema struct {
	Fields map[string]FieldSpec `json:"fields" yaml:"fields"`
}

// TemplateDefinition is one entry of the template registry. Definitions are
// loaded once at initialization and are read-only afterward, so they may be
// shared across concurrent slide transformations without synchronization.
// Implements: prd005-templates R1.1.
type TemplateDefinition struct {
	// Name is the registry key slides refer to.
	Name string `json:"name" yaml:"name"`

	// Category groups definitions for listing (e.g. "structure", "content").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Schema is the content contract slides must satisfy.
	Schema Schema `json:"schema" yaml:"schema"`

	// Example is sample content satisfying the schema, shown by the
	// templates subcommand.
	Example map[string]any `json:"example,omitempty" yaml:"example,omitempty"`

	// Output is the template source evaluated against slide content.
	Output string `json:"output" yaml:"output"`

	// CSS is an optional style block contributed once per deck when any
	// slide uses this template.
	CSS string `json:"css,omitempty" yaml:"css,omitempty"`
}
