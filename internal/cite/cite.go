// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite finds citation markers in slide content and expands them
// into inline citation text.
// Implements: prd002-citations (R1-R3);
//
//	docs/ARCHITECTURE § Citations.
package cite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/slidegen/pkg/types"
)

// markerRe matches a single citation marker: an @-prefixed token such as
// @smith2024 or @doi:10.1000/xyz123. Trailing sentence punctuation is not
// part of the id.
var markerRe = regexp.MustCompile(`@([A-Za-z0-9_][A-Za-z0-9_:./\-]*)`)

// groupRe matches a bracketed multi-citation group like [@a; @b; @c].
var groupRe = regexp.MustCompile(`\[(@[^\[\]]+)\]`)

// Extract scans every string field of every slide's content, recursively
// through lists and maps, and returns one Citation per marker occurrence in
// source order. Zero citations is a valid result (R1.1, R1.2).
func Extract(p types.Presentation) []types.Citation {
	var citations []types.Citation
	for i, slide := range p.Slides {
		slide.Content.WalkStrings(func(path, s string) {
			for _, id := range MarkerIDs(s) {
				citations = append(citations, types.Citation{
					ID:         id,
					SlideIndex: i,
					FieldPath:  path,
				})
			}
		})
	}
	return citations
}

// MarkerIDs returns the citation ids referenced in a single string, in
// order of appearance. Markers inside bracketed groups and bare markers
// are treated alike.
func MarkerIDs(s string) []string {
	var ids []string
	for _, m := range markerRe.FindAllStringSubmatch(s, -1) {
		ids = append(ids, trimID(m[1]))
	}
	return ids
}

// UniqueIDs collapses citations into a deduplicated id list preserving
// first-seen order. This ordering defines "citation order" for
// bibliography sorting, so it must be stable across runs (R2.1, R2.2).
func UniqueIDs(citations []types.Citation) []string {
	seen := make(map[string]bool, len(citations))
	var ids []string
	for _, c := range citations {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		ids = append(ids, c.ID)
	}
	return ids
}

// trimID strips sentence punctuation that the marker regex may have
// swallowed at the end of a token ("@smith2024." → "smith2024").
func trimID(id string) string {
	return strings.TrimRight(id, ".:,;")
}

// Expand replaces citation markers in text with their formatted inline
// form using already-resolved reference items. Markers whose id has no
// resolved item are left raw so the reader can still see them (R3.2).
// Bracketed groups are rewritten as a single parenthesized run.
func Expand(text string, refs map[string]types.ReferenceItem) string {
	if len(refs) == 0 {
		return text
	}

	// Groups first, so their member markers are not rewritten twice.
	text = groupRe.ReplaceAllStringFunc(text, func(group string) string {
		inner := group[1 : len(group)-1]
		parts := strings.Split(inner, ";")
		var formatted []string
		resolvedAll := true
		for _, part := range parts {
			ids := MarkerIDs(part)
			if len(ids) == 0 {
				continue
			}
			item, ok := refs[ids[0]]
			if !ok {
				resolvedAll = false
				continue
			}
			formatted = append(formatted, inlineLabel(item))
		}
		if !resolvedAll || len(formatted) == 0 {
			return group
		}
		return "(" + strings.Join(formatted, "; ") + ")"
	})

	return markerRe.ReplaceAllStringFunc(text, func(marker string) string {
		id := trimID(marker[1:])
		item, ok := refs[id]
		if !ok {
			return marker
		}
		suffix := marker[1+len(id):]
		return "(" + inlineLabel(item) + ")" + suffix
	})
}

// inlineLabel renders "Family Year" for one reference, using "et al." past
// the first author and "n.d." when the year is unknown.
func inlineLabel(item types.ReferenceItem) string {
	name := "anon."
	if len(item.Authors) > 0 {
		name = item.Authors[0].DisplayFamily()
		if len(item.Authors) > 1 {
			name += " et al."
		}
	}
	if item.IssuedYear == 0 {
		return name + " n.d."
	}
	return fmt.Sprintf("%s %d", name, item.IssuedYear)
}
