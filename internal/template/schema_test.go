// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package template

import (
	"strings"
	"testing"

	"github.com/pdiddy/slidegen/pkg/types"
)

func bulletSchema() types.Schema {
	return types.Schema{Fields: map[string]types.FieldSpec{
		"title": {Type: "string", Required: true},
		"items": {Type: "list", Required: true, Item: &types.FieldSpec{Type: "string"}},
	}}
}

func TestValidateAccepts(t *testing.T) {
	content := types.MapValue(
		"title", types.StringValue("Findings"),
		"items", types.ListValue(types.StringValue("a"), types.StringValue("b")),
	)
	if problems := validate(bulletSchema(), content); len(problems) != 0 {
		t.Errorf("problems = %v", problems)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	// Missing title and a wrong item type: both are reported in one pass.
	content := types.MapValue(
		"items", types.ListValue(types.StringValue("ok"), types.NumberValue(5)),
	)
	problems := validate(bulletSchema(), content)
	if len(problems) != 2 {
		t.Fatalf("problems = %v, want 2 entries", problems)
	}
}

func TestValidateTypeMismatches(t *testing.T) {
	schema := types.Schema{Fields: map[string]types.FieldSpec{
		"s": {Type: "string"},
		"n": {Type: "number"},
		"b": {Type: "bool"},
		"l": {Type: "list"},
		"m": {Type: "map"},
	}}

	tests := []struct {
		name    string
		content types.Value
		want    string
	}{
		{"number for string", types.MapValue("s", types.NumberValue(1)), `field "s"`},
		{"string for number", types.MapValue("n", types.StringValue("x")), `field "n"`},
		{"string for bool", types.MapValue("b", types.StringValue("yes")), `field "b"`},
		{"string for list", types.MapValue("l", types.StringValue("x")), `field "l"`},
		{"list for map", types.MapValue("m", types.ListValue()), `field "m"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := validate(schema, tt.content)
			if len(problems) != 1 || !strings.Contains(problems[0], tt.want) {
				t.Errorf("problems = %v, want one mentioning %s", problems, tt.want)
			}
		})
	}
}

func TestValidateNestedMapFields(t *testing.T) {
	schema := types.Schema{Fields: map[string]types.FieldSpec{
		"columns": {Type: "map", Fields: map[string]types.FieldSpec{
			"left":  {Type: "string", Required: true},
			"right": {Type: "string", Required: true},
		}},
	}}

	content := types.MapValue(
		"columns", types.MapValue("left", types.StringValue("text")),
	)
	problems := validate(schema, content)
	if len(problems) != 1 || !strings.Contains(problems[0], "columns.right") {
		t.Errorf("problems = %v", problems)
	}
}

func TestValidateOptionalFieldsMayBeAbsent(t *testing.T) {
	schema := types.Schema{Fields: map[string]types.FieldSpec{
		"title":    {Type: "string", Required: true},
		"subtitle": {Type: "string"},
	}}
	content := types.MapValue("title", types.StringValue("x"))
	if problems := validate(schema, content); len(problems) != 0 {
		t.Errorf("problems = %v", problems)
	}
}

func TestValidateNullContentWithoutRequiredFields(t *testing.T) {
	schema := types.Schema{Fields: map[string]types.FieldSpec{
		"subtitle": {Type: "string"},
	}}
	if problems := validate(schema, types.Value{Kind: types.KindNull}); len(problems) != 0 {
		t.Errorf("problems = %v", problems)
	}
}

func TestValidateNullContentWithRequiredFields(t *testing.T) {
	problems := validate(bulletSchema(), types.Value{Kind: types.KindNull})
	if len(problems) == 0 {
		t.Error("expected a problem for null content with required fields")
	}
}

func TestValidateEmptySchemaAcceptsAnything(t *testing.T) {
	if problems := validate(types.Schema{}, types.StringValue("whatever")); len(problems) != 0 {
		t.Errorf("problems = %v", problems)
	}
}

func TestValidateProblemOrderDeterministic(t *testing.T) {
	schema := types.Schema{Fields: map[string]types.FieldSpec{
		"zz": {Type: "string", Required: true},
		"aa": {Type: "string", Required: true},
	}}
	problems := validate(schema, types.MapValue())
	if len(problems) != 2 {
		t.Fatalf("problems = %v", problems)
	}
	if !strings.Contains(problems[0], "aa") || !strings.Contains(problems[1], "zz") {
		t.Errorf("problems not sorted by field name: %v", problems)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{
		Template:   "bullets",
		SlideIndex: 2,
		SourceLine: 14,
		Problems:   []string{`missing required field "title"`},
	}
	msg := err.Error()
	for _, want := range []string{"slide 3", "line 14", "bullets", "title"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}
