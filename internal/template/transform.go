// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package template

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	texttemplate "text/template"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/slidegen/internal/cite"
	"github.com/pdiddy/slidegen/internal/icon"
	"github.com/pdiddy/slidegen/pkg/types"
)

// iconTokenRe matches inline icon references in content strings, e.g.
// ":rocket:" or ":arrow-right:".
var iconTokenRe = regexp.MustCompile(`:([a-z][a-z0-9]*(?:-[a-z0-9]+)*):`)

// EvalError reports a template whose evaluation failed. The orchestrator
// classifies it under the render stage, distinct from lookup and schema
// failures (R5.3).
type EvalError struct {
	Template   string
	SlideIndex int
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("slide %d: evaluating template %q: %v", e.SlideIndex+1, e.Template, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Result carries the per-slide fragments in slide order, accumulated
// warnings, and the distinct template names used in first-use order.
type Result struct {
	Fragments     []string
	Warnings      []string
	UsedTemplates []string
}

// Transformer binds slides to their template definitions and evaluates
// them. The registry and icon registry are read-only, so one Transformer
// serves concurrent slide evaluations.
type Transformer struct {
	registry *Registry
	icons    *icon.Registry
}

// NewTransformer creates a Transformer over the given registries.
func NewTransformer(registry *Registry, icons *icon.Registry) *Transformer {
	return &Transformer{registry: registry, icons: icons}
}

// Transform produces one output fragment per slide, in original slide
// order regardless of evaluation scheduling. Lookup and schema validation
// run sequentially up front so their failures are deterministic; template
// evaluation fans out per slide and results are collected into an array
// indexed by slide position (R5.1, R5.2).
func (t *Transformer) Transform(ctx context.Context, p types.Presentation, refs map[string]types.ReferenceItem) (Result, error) {
	defs, err := t.registry.ValidateSlides(p)
	if err != nil {
		return Result{}, err
	}

	fragments := make([]string, len(p.Slides))
	slideWarnings := make([][]string, len(p.Slides))

	g, gctx := errgroup.WithContext(ctx)
	for i, slide := range p.Slides {
		i, slide := i, slide
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fragment, warnings, err := t.evalSlide(i, slide, defs[i], refs)
			if err != nil {
				return err
			}
			fragments[i] = fragment
			slideWarnings[i] = warnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{
		Fragments:     fragments,
		UsedTemplates: usedTemplates(p.Slides),
	}
	for _, w := range slideWarnings {
		result.Warnings = append(result.Warnings, w...)
	}
	return result, nil
}

// evalSlide expands citation and icon placeholders in the slide's content,
// then evaluates the definition's output template against it. The template
// sees exactly two host functions: icon and cite (R4.4).
func (t *Transformer) evalSlide(index int, slide types.Slide, def types.TemplateDefinition, refs map[string]types.ReferenceItem) (string, []string, error) {
	var warnings []string

	expanded := slide.Content.MapStrings(func(_, s string) string {
		s = cite.Expand(s, refs)
		return t.expandIcons(index, s, &warnings)
	})

	funcs := texttemplate.FuncMap{
		"icon": func(name string) string {
			markup, ok := t.icons.Resolve(name)
			if !ok {
				warnings = append(warnings,
					fmt.Sprintf("slide %d: unknown icon %q", index+1, name))
				return ":" + name + ":"
			}
			return markup
		},
		"cite": func(text string) string {
			return cite.Expand(text, refs)
		},
	}

	tmpl, err := texttemplate.New(def.Name).Funcs(funcs).Parse(def.Output)
	if err != nil {
		return "", nil, &EvalError{Template: def.Name, SlideIndex: index, Err: err}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, expanded.ToAny()); err != nil {
		return "", nil, &EvalError{Template: def.Name, SlideIndex: index, Err: err}
	}

	fragment := strings.TrimSpace(out.String())
	if slide.Notes != "" {
		fragment = appendNotes(fragment, slide.Notes)
	}
	return fragment, warnings, nil
}

// expandIcons replaces known inline icon tokens and records a warning for
// unknown ones, leaving the token in place so content is never dropped.
func (t *Transformer) expandIcons(index int, s string, warnings *[]string) string {
	return iconTokenRe.ReplaceAllStringFunc(s, func(token string) string {
		name := token[1 : len(token)-1]
		markup, ok := t.icons.Resolve(name)
		if !ok {
			*warnings = append(*warnings,
				fmt.Sprintf("slide %d: unknown icon %q", index+1, name))
			return token
		}
		return markup
	})
}

// appendNotes attaches speaker notes as a presenter comment.
func appendNotes(fragment, notes string) string {
	return fragment + "\n\n<!--\n" + strings.TrimSpace(notes) + "\n-->"
}

// usedTemplates returns the distinct template names in first-use order.
func usedTemplates(slides []types.Slide) []string {
	seen := make(map[string]bool, len(slides))
	var names []string
	for _, slide := range slides {
		if seen[slide.Template] {
			continue
		}
		seen[slide.Template] = true
		names = append(names, slide.Template)
	}
	return names
}
