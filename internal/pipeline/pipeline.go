// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the conversion stages: parse, citation
// collection, reference resolution, bibliography merge, transformation,
// and rendering. Fatal errors carry their stage tag; non-fatal conditions
// accumulate as warnings on the run's result.
// Implements: prd007-pipeline (R1-R5);
//
//	docs/ARCHITECTURE § Pipeline.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/slidegen/internal/bib"
	"github.com/pdiddy/slidegen/internal/cite"
	"github.com/pdiddy/slidegen/internal/document"
	"github.com/pdiddy/slidegen/internal/icon"
	"github.com/pdiddy/slidegen/internal/render"
	"github.com/pdiddy/slidegen/internal/resolve"
	"github.com/pdiddy/slidegen/internal/template"
	"github.com/pdiddy/slidegen/pkg/types"
)

// Stage classifies where a fatal error occurred, so callers can map runs
// to differentiated handling such as process exit codes (R4.1).
type Stage string

const (
	StageInitialize Stage = "initialize"
	StageParse      Stage = "parse"
	StageTransform  Stage = "transform"
	StageRender     Stage = "render"
	StageUnknown    Stage = "unknown"
)

// StageError wraps a fatal pipeline error with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Classify extracts the stage tag from an error, or StageUnknown.
func Classify(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return StageUnknown
}

// Result is the outcome of one successful run. It is constructed once and
// never mutated after return (R5.2).
type Result struct {
	// Output is the assembled Marp Markdown document.
	Output string

	// Citations lists the citation ids in first-seen order, each exactly
	// once.
	Citations []string

	// Warnings lists the non-fatal degradations of this run, in the order
	// they occurred.
	Warnings []string

	// SlideCount is the number of slides rendered.
	SlideCount int
}

// Pipeline converts presentation documents. One Pipeline may serve
// concurrent runs: its registries are read-only after construction and all
// per-run state, warnings included, lives in values threaded through Run
// (R5.1).
type Pipeline struct {
	registry  *template.Registry
	icons     *icon.Registry
	resolver  resolve.Resolver
	renderCfg types.RenderConfig

	cache *resolve.Cache // non-nil when a cache wraps the resolver
}

// New constructs a production pipeline: template and icon registries from
// config, a manubot-backed resolver, optionally wrapped in the SQLite
// cache. Registry failures are initialization errors, tagged distinctly
// from per-run failures (R4.2).
func New(cfg types.PipelineConfig) (*Pipeline, error) {
	var resolver resolve.Resolver = resolve.NewManubot(cfg.Resolver)
	var cache *resolve.Cache
	if cfg.Resolver.CachePath != "" {
		c, err := resolve.NewCache(cfg.Resolver.CachePath, resolver)
		if err != nil {
			return nil, &StageError{Stage: StageInitialize, Err: err}
		}
		resolver = c
		cache = c
	}

	p, err := NewWithResolver(cfg, resolver)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, err
	}
	p.cache = cache
	return p, nil
}

// NewWithResolver constructs a pipeline with an injected resolver. Tests
// and offline callers substitute a deterministic double here.
func NewWithResolver(cfg types.PipelineConfig, resolver resolve.Resolver) (*Pipeline, error) {
	registry, err := template.NewRegistry(cfg.Templates)
	if err != nil {
		return nil, &StageError{Stage: StageInitialize, Err: err}
	}

	icons, err := icon.NewRegistry(cfg.Icons)
	if err != nil {
		return nil, &StageError{Stage: StageInitialize, Err: err}
	}

	return &Pipeline{
		registry:  registry,
		icons:     icons,
		resolver:  resolver,
		renderCfg: cfg.Render,
	}, nil
}

// Close releases resources held by the pipeline (the reference cache).
func (p *Pipeline) Close() error {
	if p.cache != nil {
		return p.cache.Close()
	}
	return nil
}

// Registry exposes the template registry for introspection commands.
func (p *Pipeline) Registry() *template.Registry {
	return p.registry
}

// Run converts one source document. Stages execute strictly sequentially;
// cancellation is observed at stage boundaries and aborts the run with the
// partial warnings discarded (R2.3). Warnings never survive across runs:
// the accumulator is local to this call.
func (p *Pipeline) Run(ctx context.Context, source []byte) (Result, error) {
	var warnings []string

	// Parsing.
	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StageUnknown, Err: err}
	}
	pres, err := document.Parse(source)
	if err != nil {
		return Result{}, &StageError{Stage: StageParse, Err: err}
	}

	// Collecting citations. No failure mode; zero citations is valid.
	citations := cite.Extract(pres)
	ids := cite.UniqueIDs(citations)

	// Resolving references: one batched call, degraded to a single
	// warning when the collaborator is unavailable (R3.1, R3.2).
	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StageUnknown, Err: err}
	}
	refs, resolveWarnings := p.resolveReferences(ctx, ids)
	warnings = append(warnings, resolveWarnings...)

	// Merging bibliography into any auto-generating bibliography slide.
	for i, slide := range pres.Slides {
		if !bib.AutoGenerate(slide) {
			continue
		}
		entries, _ := bib.Generate(ids, refs, bib.SortKey(slide), p.renderCfg.MaxBibAuthors)
		pres = pres.WithSlideContent(i, bib.Merge(slide.Content, entries))
	}

	// Transforming. Per-slide evaluation may run concurrently; order is
	// re-imposed by slide index inside the transformer.
	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StageUnknown, Err: err}
	}
	transformed, err := p.transform(ctx, pres, refs)
	if err != nil {
		return Result{}, err
	}
	warnings = append(warnings, transformed.Warnings...)

	// Rendering.
	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StageUnknown, Err: err}
	}
	styles := make([]render.StyleBlock, 0, len(transformed.UsedTemplates))
	for _, name := range transformed.UsedTemplates {
		styles = append(styles, render.StyleBlock{TemplateName: name, CSS: p.registry.CSS(name)})
	}
	output, err := render.Assemble(pres.Meta, transformed.Fragments, styles, p.renderCfg)
	if err != nil {
		return Result{}, &StageError{Stage: StageRender, Err: err}
	}

	return Result{
		Output:     output,
		Citations:  ids,
		Warnings:   warnings,
		SlideCount: len(pres.Slides),
	}, nil
}

// resolveReferences issues the single batched lookup. Unavailability
// yields exactly one warning regardless of citation count; ids the
// resolver does not know each yield a per-id warning while the rest of the
// run proceeds on the partial result.
func (p *Pipeline) resolveReferences(ctx context.Context, ids []string) (map[string]types.ReferenceItem, []string) {
	if len(ids) == 0 || p.resolver == nil {
		return nil, nil
	}

	refs, err := p.resolver.Resolve(ctx, ids)
	if err != nil {
		// Absent tool and failing tool carry distinct messages but get
		// identical non-fatal handling.
		return nil, []string{fmt.Sprintf(
			"reference resolution skipped: %v; citation markers left unexpanded", err)}
	}

	var warnings []string
	for _, id := range ids {
		if _, ok := refs[id]; !ok {
			warnings = append(warnings, fmt.Sprintf("citation @%s could not be resolved", id))
		}
	}
	return refs, warnings
}

// transform runs the transformer and maps its failures onto stages:
// unknown templates and schema violations are transform failures, while
// template evaluation errors count as render failures (R4.3).
func (p *Pipeline) transform(ctx context.Context, pres types.Presentation, refs map[string]types.ReferenceItem) (template.Result, error) {
	t := template.NewTransformer(p.registry, p.icons)
	result, err := t.Transform(ctx, pres, refs)
	if err == nil {
		return result, nil
	}

	var evalErr *template.EvalError
	if errors.As(err, &evalErr) {
		return template.Result{}, &StageError{Stage: StageRender, Err: err}
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return template.Result{}, &StageError{Stage: StageUnknown, Err: err}
	}
	return template.Result{}, &StageError{Stage: StageTransform, Err: err}
}
