// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/slidegen/pkg/types"
)

// ValidationError reports slide content that violates its template's
// schema. Fatal for the run: rendering invalid content would produce
// misleading output (R2.4).
type ValidationError struct {
	Template   string
	SlideIndex int
	SourceLine int
	Problems   []string
}

func (e *ValidationError) Error() string {
	loc := fmt.Sprintf("slide %d", e.SlideIndex+1)
	if e.SourceLine > 0 {
		loc = fmt.Sprintf("slide %d (line %d)", e.SlideIndex+1, e.SourceLine)
	}
	return fmt.Sprintf("%s: content does not match template %q: %s",
		loc, e.Template, strings.Join(e.Problems, "; "))
}

// validate walks the schema and the content tree in lock-step, collecting
// every violation rather than stopping at the first (R2.1-R2.3).
func validate(schema types.Schema, content types.Value) []string {
	var problems []string

	if len(schema.Fields) == 0 {
		return nil
	}
	if content.Kind != types.KindMap {
		if content.Kind == types.KindNull && !anyRequired(schema.Fields) {
			return nil
		}
		return []string{fmt.Sprintf("content must be a map, got %s", content.Kind)}
	}

	for _, name := range sortedFieldNames(schema.Fields) {
		spec := schema.Fields[name]
		field, ok := content.Field(name)
		if !ok {
			if spec.Required {
				problems = append(problems, fmt.Sprintf("missing required field %q", name))
			}
			continue
		}
		problems = append(problems, validateField(name, spec, field)...)
	}

	return problems
}

func validateField(path string, spec types.FieldSpec, v types.Value) []string {
	var problems []string

	switch spec.Type {
	case "", "any":
		return nil
	case "string":
		if v.Kind != types.KindString {
			problems = append(problems, typeMismatch(path, "string", v))
		}
	case "number":
		if v.Kind != types.KindNumber {
			problems = append(problems, typeMismatch(path, "number", v))
		}
	case "bool":
		if v.Kind != types.KindBool {
			problems = append(problems, typeMismatch(path, "bool", v))
		}
	case "list":
		if v.Kind != types.KindList {
			problems = append(problems, typeMismatch(path, "list", v))
			break
		}
		if spec.Item != nil {
			for i, item := range v.List {
				problems = append(problems,
					validateField(fmt.Sprintf("%s[%d]", path, i), *spec.Item, item)...)
			}
		}
	case "map":
		if v.Kind != types.KindMap {
			problems = append(problems, typeMismatch(path, "map", v))
			break
		}
		for _, name := range sortedFieldNames(spec.Fields) {
			sub := spec.Fields[name]
			subPath := path + "." + name
			field, ok := v.Field(name)
			if !ok {
				if sub.Required {
					problems = append(problems, fmt.Sprintf("missing required field %q", subPath))
				}
				continue
			}
			problems = append(problems, validateField(subPath, sub, field)...)
		}
	default:
		problems = append(problems, fmt.Sprintf("field %q: schema declares unknown type %q", path, spec.Type))
	}

	return problems
}

func typeMismatch(path, want string, v types.Value) string {
	return fmt.Sprintf("field %q: expected %s, got %s", path, want, v.Kind)
}

// sortedFieldNames keeps validation output deterministic; schema maps have
// no inherent order once decoded.
func sortedFieldNames(fields map[string]types.FieldSpec) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func anyRequired(fields map[string]types.FieldSpec) bool {
	for _, spec := range fields {
		if spec.Required {
			return true
		}
	}
	return false
}
