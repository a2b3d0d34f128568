// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package template loads template definitions, validates slide content
// against their schemas, and transforms slides into output fragments.
// Implements: prd005-templates (R1-R5);
//
//	docs/ARCHITECTURE § Templates.
package template

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidegen/pkg/types"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// UnknownTemplateError reports a slide referring to a template name absent
// from the registry. Fatal: the pipeline must never silently skip a slide
// (R3.1).
type UnknownTemplateError struct {
	Name       string
	SlideIndex int
	SourceLine int
}

func (e *UnknownTemplateError) Error() string {
	if e.SourceLine > 0 {
		return fmt.Sprintf("slide %d (line %d): unknown template %q", e.SlideIndex+1, e.SourceLine, e.Name)
	}
	return fmt.Sprintf("slide %d: unknown template %q", e.SlideIndex+1, e.Name)
}

// Registry holds template definitions keyed by name. It is populated once
// during initialization and read-only afterward, so it is shared across
// concurrent transformer workers without synchronization (R1.5).
type Registry struct {
	defs map[string]types.TemplateDefinition
}

// NewRegistry loads the embedded built-in definitions, then cfg.Dir, then
// cfg.CustomDir, each recursively. Later sources override earlier ones by
// name. Any load failure is an initialization error.
func NewRegistry(cfg types.TemplatesConfig) (*Registry, error) {
	r := &Registry{defs: make(map[string]types.TemplateDefinition)}

	if err := r.loadFS(builtinFS, "builtin"); err != nil {
		return nil, fmt.Errorf("loading built-in templates: %w", err)
	}

	for _, dir := range []string{cfg.Dir, cfg.CustomDir} {
		if dir == "" {
			continue
		}
		if err := r.loadDir(dir); err != nil {
			return nil, fmt.Errorf("loading templates from %s: %w", dir, err)
		}
	}

	if len(r.defs) == 0 {
		return nil, fmt.Errorf("template registry is empty")
	}

	return r, nil
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (types.TemplateDefinition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns all registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CSS returns the style text declared by the named template, or "".
func (r *Registry) CSS(name string) string {
	return r.defs[name].CSS
}

// ValidateSlides looks up every slide's definition and validates its
// content, returning the definitions in slide order. The first unknown
// template or schema violation aborts; slides are checked in order so the
// reported failure is deterministic (R2.5, R3.1).
func (r *Registry) ValidateSlides(p types.Presentation) ([]types.TemplateDefinition, error) {
	defs := make([]types.TemplateDefinition, len(p.Slides))
	for i, slide := range p.Slides {
		def, ok := r.Lookup(slide.Template)
		if !ok {
			return nil, &UnknownTemplateError{
				Name:       slide.Template,
				SlideIndex: i,
				SourceLine: slide.SourceLine,
			}
		}
		if problems := validate(def.Schema, slide.Content); len(problems) > 0 {
			return nil, &ValidationError{
				Template:   slide.Template,
				SlideIndex: i,
				SourceLine: slide.SourceLine,
				Problems:   problems,
			}
		}
		defs[i] = def
	}
	return defs, nil
}

func (r *Registry) loadFS(fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTemplateFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		return r.add(path, data)
	})
}

func (r *Registry) loadDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTemplateFile(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return r.add(path, data)
	})
}

func (r *Registry) add(path string, data []byte) error {
	var def types.TemplateDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		return fmt.Errorf("%s: template definition has no name", path)
	}
	if def.Output == "" {
		return fmt.Errorf("%s: template %q has no output", path, def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

func isTemplateFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
