// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document parses and validates the presentation source document.
// Implements: prd001-document (R1-R3);
//
//	docs/ARCHITECTURE § Document Parsing.
package document

import (
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidegen/pkg/types"
)

// SyntaxError reports a source document that could not be parsed as YAML at
// all. It short-circuits the pipeline before any external resource is
// touched (R1.4).
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("document is not valid YAML: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// SchemaError reports a structurally parseable document that violates the
// document shape: missing slides list, a slide without a template key, or a
// malformed node. Line is the 1-based source line when known.
type SchemaError struct {
	Msg        string
	SlideIndex int // -1 when not slide-specific
	Line       int // 0 when unknown
}

func (e *SchemaError) Error() string {
	switch {
	case e.SlideIndex >= 0 && e.Line > 0:
		return fmt.Sprintf("slide %d (line %d): %s", e.SlideIndex+1, e.Line, e.Msg)
	case e.SlideIndex >= 0:
		return fmt.Sprintf("slide %d: %s", e.SlideIndex+1, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	default:
		return e.Msg
	}
}

// Parse decodes a source document into a Presentation. Each slide records
// its 1-based source line for diagnostics. The top-level shape is a map
// with an optional "meta" object and a required "slides" sequence; each
// slide needs a "template" key (R1.1-R1.3, R3.1).
func Parse(data []byte) (types.Presentation, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return types.Presentation{}, &SyntaxError{Err: err}
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return types.Presentation{}, &SchemaError{Msg: "document is empty", SlideIndex: -1}
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return types.Presentation{}, &SchemaError{
			Msg:        "top level must be a map with meta and slides",
			SlideIndex: -1,
			Line:       doc.Line,
		}
	}

	var p types.Presentation
	var slidesNode *yaml.Node

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "meta":
			if err := val.Decode(&p.Meta); err != nil {
				return types.Presentation{}, &SchemaError{
					Msg:        fmt.Sprintf("meta is malformed: %v", err),
					SlideIndex: -1,
					Line:       val.Line,
				}
			}
		case "slides":
			slidesNode = val
		}
	}

	if slidesNode == nil {
		return types.Presentation{}, &SchemaError{Msg: "missing required field: slides", SlideIndex: -1}
	}
	if slidesNode.Kind != yaml.SequenceNode {
		return types.Presentation{}, &SchemaError{
			Msg:        "slides must be a list",
			SlideIndex: -1,
			Line:       slidesNode.Line,
		}
	}

	for i, node := range slidesNode.Content {
		slide, err := parseSlide(i, node)
		if err != nil {
			return types.Presentation{}, err
		}
		p.Slides = append(p.Slides, slide)
	}

	return p, nil
}

// parseSlide decodes one slide entry: template (required scalar), content
// (arbitrary tree), notes (optional scalar).
func parseSlide(index int, node *yaml.Node) (types.Slide, error) {
	if node.Kind != yaml.MappingNode {
		return types.Slide{}, &SchemaError{
			Msg:        "slide must be a map",
			SlideIndex: index,
			Line:       node.Line,
		}
	}

	slide := types.Slide{SourceLine: node.Line}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "template":
			if val.Kind != yaml.ScalarNode || val.Value == "" {
				return types.Slide{}, &SchemaError{
					Msg:        "template must be a non-empty string",
					SlideIndex: index,
					Line:       val.Line,
				}
			}
			slide.Template = val.Value
		case "content":
			v, err := decodeValue(val)
			if err != nil {
				return types.Slide{}, &SchemaError{
					Msg:        fmt.Sprintf("content is malformed: %v", err),
					SlideIndex: index,
					Line:       val.Line,
				}
			}
			slide.Content = v
		case "notes":
			if val.Kind == yaml.ScalarNode {
				slide.Notes = val.Value
			}
		}
	}

	if slide.Template == "" {
		return types.Slide{}, &SchemaError{
			Msg:        "missing required field: template",
			SlideIndex: index,
			Line:       node.Line,
		}
	}

	return slide, nil
}

// decodeValue converts a YAML node into the tagged-variant content tree,
// preserving map key order.
func decodeValue(node *yaml.Node) (types.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalar(node)
	case yaml.SequenceNode:
		out := types.Value{Kind: types.KindList}
		for _, item := range node.Content {
			v, err := decodeValue(item)
			if err != nil {
				return types.Value{}, err
			}
			out.List = append(out.List, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := types.Value{Kind: types.KindMap, Map: make(map[string]types.Value, len(node.Content)/2)}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return types.Value{}, fmt.Errorf("line %d: map keys must be scalars", key.Line)
			}
			v, err := decodeValue(val)
			if err != nil {
				return types.Value{}, err
			}
			out.Keys = append(out.Keys, key.Value)
			out.Map[key.Value] = v
		}
		return out, nil
	case yaml.AliasNode:
		return decodeValue(node.Alias)
	default:
		return types.Value{}, fmt.Errorf("line %d: unsupported node kind", node.Line)
	}
}

func decodeScalar(node *yaml.Node) (types.Value, error) {
	switch node.Tag {
	case "!!null":
		return types.Value{}, nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return types.Value{}, fmt.Errorf("line %d: bad bool %q", node.Line, node.Value)
		}
		return types.BoolValue(b), nil
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return types.Value{}, fmt.Errorf("line %d: bad number %q", node.Line, node.Value)
		}
		return types.NumberValue(n), nil
	default:
		return types.StringValue(node.Value), nil
	}
}
