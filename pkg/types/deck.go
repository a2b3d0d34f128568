// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Meta holds the deck-level metadata from the source document's top-level
// meta object. All fields are free text and optional.
// Implements: prd001-document R1.2.
type Meta struct {
	// Title is the presentation title, emitted into the front matter.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Author is the presenter's display name.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Date is a free-text date (the pipeline does not interpret it).
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	// Theme selects the Marp theme; empty means the configured default.
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Slide is one unit of the presentation: a named template plus the content
// that template renders. Slides are owned by their Presentation and are
// never mutated after parse.
type Slide struct {
	// Template names the TemplateDefinition that renders this slide.
	Template string

	// Content is the template-specific content tree.
	Content Value

	// Notes holds optional speaker notes, carried into the output as a
	// presenter comment.
	Notes string

	// SourceLine is the 1-based line of the slide in the source document,
	// used in diagnostics. Zero when unknown.
	SourceLine int
}

// Presentation is the parsed source document: metadata plus an ordered
// slide list. It is immutable after parse; the bibliography merge step
// produces a new value via WithSlideContent rather than mutating in place.
// Implements: prd001-document R1.1.
type Presentation struct {
	Meta   Meta
	Slides []Slide
}

// WithSlideContent returns a copy of the presentation with slide i's
// content replaced. The receiver is left untouched.
func (p Presentation) WithSlideContent(i int, content Value) Presentation {
	out := p
	out.Slides = make([]Slide, len(p.Slides))
	copy(out.Slides, p.Slides)
	out.Slides[i].Content = content
	return out
}
