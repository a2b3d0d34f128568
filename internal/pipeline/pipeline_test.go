// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/slidegen/internal/resolve"
	"github.com/pdiddy/slidegen/pkg/types"
)

const sampleDeck = `meta:
  title: Antibiotic Stewardship
  author: T. Yamada
  theme: gaia
slides:
  - template: title
    content:
      title: Antibiotic Stewardship
      presenter: T. Yamada
  - template: bullets
    content:
      title: Findings
      items:
        - Resistance doubled since 2019 @smith2024
        - Outcomes improved @tanaka2023
        - Confirmed again @smith2024
  - template: bibliography
    content:
      autoGenerate: true
`

var sampleRefs = map[string]types.ReferenceItem{
	"smith2024": {
		ID:         "smith2024",
		Authors:    []types.CSLName{{Family: "Smith", Given: "Anna"}},
		Title:      "Resistance Trends",
		IssuedYear: 2024,
	},
	"tanaka2023": {
		ID:         "tanaka2023",
		Authors:    []types.CSLName{{Family: "Tanaka", Given: "Ken"}},
		Title:      "Stewardship Outcomes",
		IssuedYear: 2023,
	},
}

func newTestPipeline(t *testing.T, resolver resolve.Resolver) *Pipeline {
	t.Helper()
	p, err := NewWithResolver(types.PipelineConfig{}, resolver)
	if err != nil {
		t.Fatalf("NewWithResolver: %v", err)
	}
	return p
}

func TestRunFullDeck(t *testing.T) {
	p := newTestPipeline(t, &resolve.Static{Items: sampleRefs})

	result, err := p.Run(context.Background(), []byte(sampleDeck))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.SlideCount != 3 {
		t.Errorf("SlideCount = %d, want 3", result.SlideCount)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v", result.Warnings)
	}

	// Citation ids in first-seen order, deduplicated.
	wantIDs := []string{"smith2024", "tanaka2023"}
	if !reflect.DeepEqual(result.Citations, wantIDs) {
		t.Errorf("Citations = %v, want %v", result.Citations, wantIDs)
	}

	out := result.Output
	if !strings.Contains(out, "marp: true") {
		t.Errorf("engine marker missing:\n%s", out)
	}
	if !strings.Contains(out, "theme: gaia") {
		t.Errorf("theme missing:\n%s", out)
	}
	if !strings.Contains(out, "(Smith 2024)") || !strings.Contains(out, "(Tanaka 2023)") {
		t.Errorf("citations not expanded:\n%s", out)
	}
	// The bibliography slide lists each reference once, in citation order.
	if !strings.Contains(out, "Smith A") || !strings.Contains(out, "Tanaka K") {
		t.Errorf("bibliography entries missing:\n%s", out)
	}
	if strings.Count(out, "Resistance Trends") != 1 {
		t.Errorf("duplicate bibliography entry:\n%s", out)
	}
	if strings.Index(out, "Resistance Trends") > strings.Index(out, "Stewardship Outcomes") {
		t.Errorf("bibliography not in citation order:\n%s", out)
	}
}

func TestRunDeterministic(t *testing.T) {
	p := newTestPipeline(t, &resolve.Static{Items: sampleRefs})

	first, err := p.Run(context.Background(), []byte(sampleDeck))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := p.Run(context.Background(), []byte(sampleDeck))
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if again.Output != first.Output {
			t.Fatal("output differs between identical runs")
		}
		if !reflect.DeepEqual(again.Warnings, first.Warnings) {
			t.Fatal("warnings differ between identical runs")
		}
	}
}

func TestRunResolverUnavailableSingleWarning(t *testing.T) {
	p := newTestPipeline(t, &resolve.Static{Err: &resolve.NotInstalledError{Command: "manubot"}})

	result, err := p.Run(context.Background(), []byte(sampleDeck))
	if err != nil {
		t.Fatalf("Run: %v, degradation must be non-fatal", err)
	}

	// Exactly one warning regardless of citation count.
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "manubot is not installed") {
		t.Errorf("warning = %q", result.Warnings[0])
	}

	// Markers stay raw in the output.
	if !strings.Contains(result.Output, "@smith2024") {
		t.Errorf("marker expanded despite unavailable resolver:\n%s", result.Output)
	}
}

func TestRunToolErrorWarningMentionsFailure(t *testing.T) {
	p := newTestPipeline(t, &resolve.Static{Err: &resolve.ToolError{
		Command: "manubot", Err: context.DeadlineExceeded,
	}})

	result, err := p.Run(context.Background(), []byte(sampleDeck))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "manubot failed") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestRunPartialResolutionWarnsPerMissingID(t *testing.T) {
	partial := map[string]types.ReferenceItem{"smith2024": sampleRefs["smith2024"]}
	p := newTestPipeline(t, &resolve.Static{Items: partial})

	result, err := p.Run(context.Background(), []byte(sampleDeck))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "@tanaka2023") {
		t.Errorf("warning = %q", result.Warnings[0])
	}
	// The resolved citation expands, the unresolved one stays raw.
	if !strings.Contains(result.Output, "(Smith 2024)") {
		t.Errorf("resolved citation not expanded:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "@tanaka2023") {
		t.Errorf("unresolved marker dropped:\n%s", result.Output)
	}
}

func TestRunNoCitationsSkipsResolver(t *testing.T) {
	// A resolver that would fail hard proves it is never called.
	p := newTestPipeline(t, &resolve.Static{Err: &resolve.ToolError{Command: "manubot", Err: context.Canceled}})

	deck := "slides:\n  - template: section\n    content:\n      title: Quiet\n"
	result, err := p.Run(context.Background(), []byte(deck))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Warnings) != 0 || len(result.Citations) != 0 {
		t.Errorf("Warnings = %v, Citations = %v", result.Warnings, result.Citations)
	}
}

func TestRunNilResolver(t *testing.T) {
	p := newTestPipeline(t, nil)

	result, err := p.Run(context.Background(), []byte(sampleDeck))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(result.Output, "@smith2024") {
		t.Errorf("markers should stay raw without a resolver:\n%s", result.Output)
	}
}

func TestRunParseFailureTagged(t *testing.T) {
	p := newTestPipeline(t, nil)

	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", "meta: [unclosed"},
		{"schema", "meta:\n  title: no slides\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Run(context.Background(), []byte(tt.doc))
			if Classify(err) != StageParse {
				t.Errorf("Classify = %v, want parse (%v)", Classify(err), err)
			}
		})
	}
}

func TestRunUnknownTemplateTaggedTransform(t *testing.T) {
	p := newTestPipeline(t, nil)
	doc := "slides:\n  - template: no-such\n"

	_, err := p.Run(context.Background(), []byte(doc))
	if Classify(err) != StageTransform {
		t.Errorf("Classify = %v, want transform (%v)", Classify(err), err)
	}
}

func TestRunSchemaViolationTaggedTransform(t *testing.T) {
	p := newTestPipeline(t, nil)
	doc := "slides:\n  - template: bullets\n    content:\n      title: no items\n"

	_, err := p.Run(context.Background(), []byte(doc))
	if Classify(err) != StageTransform {
		t.Errorf("Classify = %v, want transform (%v)", Classify(err), err)
	}
}

func TestRunCancelledContextTaggedUnknown(t *testing.T) {
	p := newTestPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, []byte(sampleDeck))
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if Classify(err) != StageUnknown {
		t.Errorf("Classify = %v, want unknown (%v)", Classify(err), err)
	}
}

func TestRunInitializationFailureTagged(t *testing.T) {
	cfg := types.PipelineConfig{
		Templates: types.TemplatesConfig{Dir: "/nonexistent/templates"},
	}
	_, err := NewWithResolver(cfg, nil)
	if Classify(err) != StageInitialize {
		t.Errorf("Classify = %v, want initialize (%v)", Classify(err), err)
	}
}

func TestRunBibliographySortByAuthor(t *testing.T) {
	p := newTestPipeline(t, &resolve.Static{Items: sampleRefs})
	deck := `slides:
  - template: bullets
    content:
      title: Findings
      items:
        - first @tanaka2023
        - then @smith2024
  - template: bibliography
    content:
      autoGenerate: true
      sortBy: author
`

	result, err := p.Run(context.Background(), []byte(deck))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Cited tanaka first, but Smith sorts before Tanaka by author.
	if strings.Index(result.Output, "Smith A") > strings.Index(result.Output, "Tanaka K") {
		t.Errorf("author sort not applied:\n%s", result.Output)
	}
}

func TestRunWarningsDoNotLeakAcrossRuns(t *testing.T) {
	p := newTestPipeline(t, &resolve.Static{Err: &resolve.NotInstalledError{Command: "manubot"}})

	first, err := p.Run(context.Background(), []byte(sampleDeck))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(first.Warnings) != 1 {
		t.Fatalf("Warnings = %v", first.Warnings)
	}

	// A citation-free deck on the same pipeline must come back clean.
	clean := "slides:\n  - template: section\n    content:\n      title: Fresh\n"
	second, err := p.Run(context.Background(), []byte(clean))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(second.Warnings) != 0 {
		t.Errorf("warnings leaked across runs: %v", second.Warnings)
	}
}

func TestClassifyPlainError(t *testing.T) {
	if got := Classify(context.Canceled); got != StageUnknown {
		t.Errorf("Classify = %v, want unknown", got)
	}
	if got := Classify(nil); got != StageUnknown {
		t.Errorf("Classify(nil) = %v, want unknown", got)
	}
}
