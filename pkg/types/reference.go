// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Citation records one occurrence of a citation marker in slide content.
// Derived during extraction; not persisted.
// Implements: prd002-citations R1.3.
type Citation struct {
	// ID is the opaque citation token without its leading "@"
	// (e.g. "smith2024", "doi:10.1000/xyz123").
	ID string

	// SlideIndex is the 0-based index of the slide the marker appeared in.
	SlideIndex int

	// FieldPath locates the content field containing the marker,
	// for diagnostics (e.g. "items[2].text").
	FieldPath string
}

// CSLName is a person's name in CSL (Citation Style Language) form.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// DisplayFamily returns the family name, falling back to the literal form
// for single-token names.
func (n CSLName) DisplayFamily() string {
	if n.Family != "" {
		return n.Family
	}
	return n.Literal
}

// ReferenceItem is a resolved bibliographic record in CSL-shaped form, as
// returned by the reference resolution collaborator. Items live only for
// the duration of one pipeline run.
// Implements: prd003-resolution R2.1.
type ReferenceItem struct {
	ID             string    `json:"id" yaml:"id"`
	Authors        []CSLName `json:"authors,omitempty" yaml:"authors,omitempty"`
	Title          string    `json:"title,omitempty" yaml:"title,omitempty"`
	ContainerTitle string    `json:"container_title,omitempty" yaml:"container_title,omitempty"`
	Volume         string    `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string    `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string    `json:"page,omitempty" yaml:"page,omitempty"`

	// IssuedYear is the publication year; zero when unknown.
	IssuedYear int `json:"issued_year,omitempty" yaml:"issued_year,omitempty"`

	DOI  string `json:"doi,omitempty" yaml:"doi,omitempty"`
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// BibliographyEntry is the template-ready projection of a ReferenceItem.
// Every entry's ID traces back to a citation id that produced it.
// Implements: prd004-bibliography R1.2.
type BibliographyEntry struct {
	ID string `json:"id" yaml:"id"`

	// AuthorText is the formatted author string, already truncated to the
	// configured author cap with an "et al." suffix.
	AuthorText string `json:"author_text" yaml:"author_text"`

	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	ContainerTitle string `json:"container_title,omitempty" yaml:"container_title,omitempty"`
	Volume         string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string `json:"page,omitempty" yaml:"page,omitempty"`
	Year           int    `json:"year,omitempty" yaml:"year,omitempty"`
	DOI            string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL            string `json:"url,omitempty" yaml:"url,omitempty"`
}
