// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib formats resolved references into sorted bibliography entries
// and merges them into a bibliography slide's content.
// Implements: prd004-bibliography (R1-R3);
//
//	docs/ARCHITECTURE § Bibliography.
package bib

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/slidegen/pkg/types"
)

// Sort keys accepted by Generate.
const (
	SortCitationOrder = "citation-order"
	SortAuthor        = "author"
	SortYear          = "year"
)

// TemplateName is the template that triggers bibliography generation.
const TemplateName = "bibliography"

// Content keys of the bibliography slide.
const (
	autoGenerateKey = "autoGenerate"
	sortByKey       = "sortBy"
	entriesKey      = "entries"
)

const defaultMaxAuthors = 3

// AutoGenerate reports whether a slide asks for an auto-generated
// bibliography: template "bibliography" with content flag autoGenerate
// (R1.1).
func AutoGenerate(slide types.Slide) bool {
	return slide.Template == TemplateName && slide.Content.FieldBool(autoGenerateKey)
}

// SortKey returns the slide's requested sort key, defaulting to
// citation-order.
func SortKey(slide types.Slide) string {
	switch key := slide.Content.FieldString(sortByKey); key {
	case SortAuthor, SortYear:
		return key
	default:
		return SortCitationOrder
	}
}

// Generate turns the ordered citation id list into formatted bibliography
// entries plus the ids that could not be resolved. ids must be in citation
// order; that order is the baseline every sort key starts from, which makes
// author and year sorting deterministic under ties (R2.1-R2.4).
func Generate(ids []string, refs map[string]types.ReferenceItem, sortBy string, maxAuthors int) ([]types.BibliographyEntry, []string) {
	if maxAuthors <= 0 {
		maxAuthors = defaultMaxAuthors
	}

	var entries []types.BibliographyEntry
	var missing []string
	items := make([]types.ReferenceItem, 0, len(ids))

	for _, id := range ids {
		item, ok := refs[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		items = append(items, item)
	}

	switch sortBy {
	case SortAuthor:
		// Case-insensitive ordinal compare on the first author's family
		// name; locale-aware collation is deliberately not attempted.
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(firstFamily(items[i])) < strings.ToLower(firstFamily(items[j]))
		})
	case SortYear:
		// Ascending, items without a year last, citation order as the
		// tie-break (stable sort).
		sort.SliceStable(items, func(i, j int) bool {
			yi, yj := items[i].IssuedYear, items[j].IssuedYear
			if yi == 0 {
				return false
			}
			if yj == 0 {
				return true
			}
			return yi < yj
		})
	}

	for _, item := range items {
		entries = append(entries, format(item, maxAuthors))
	}
	return entries, missing
}

// Merge returns the bibliography slide's content with the generated entries
// written under the dedicated entries field. Zero entries still yields an
// empty list so the slide renders rather than failing (R3.2).
func Merge(content types.Value, entries []types.BibliographyEntry) types.Value {
	list := types.Value{Kind: types.KindList, List: make([]types.Value, len(entries))}
	for i, e := range entries {
		list.List[i] = entryValue(e)
	}
	return content.WithField(entriesKey, list)
}

// firstFamily returns the first author's family name, or "" when the item
// has no authors (sorting those first under ordinal compare).
func firstFamily(item types.ReferenceItem) string {
	if len(item.Authors) == 0 {
		return ""
	}
	return item.Authors[0].DisplayFamily()
}

// format projects a ReferenceItem into its template-ready entry.
func format(item types.ReferenceItem, maxAuthors int) types.BibliographyEntry {
	return types.BibliographyEntry{
		ID:             item.ID,
		AuthorText:     authorText(item.Authors, maxAuthors),
		Title:          item.Title,
		ContainerTitle: item.ContainerTitle,
		Volume:         item.Volume,
		Issue:          item.Issue,
		Page:           item.Page,
		Year:           item.IssuedYear,
		DOI:            item.DOI,
		URL:            item.URL,
	}
}

// authorText joins up to maxAuthors names as "Family G" parts, appending
// "et al." when the list was truncated.
func authorText(authors []types.CSLName, maxAuthors int) string {
	if len(authors) == 0 {
		return ""
	}

	shown := authors
	truncated := false
	if len(shown) > maxAuthors {
		shown = shown[:maxAuthors]
		truncated = true
	}

	parts := make([]string, 0, len(shown))
	for _, a := range shown {
		parts = append(parts, displayName(a))
	}

	text := strings.Join(parts, ", ")
	if truncated {
		text += ", et al."
	}
	return text
}

// displayName renders "Family GG" with given names reduced to initials,
// the customary compact form for slide bibliographies.
func displayName(n types.CSLName) string {
	family := n.DisplayFamily()
	if n.Given == "" {
		return family
	}
	var initials strings.Builder
	for _, part := range strings.Fields(n.Given) {
		r := []rune(part)
		if len(r) > 0 {
			initials.WriteRune(r[0])
		}
	}
	return fmt.Sprintf("%s %s", family, initials.String())
}

// entryValue converts an entry into content-tree form for the template.
func entryValue(e types.BibliographyEntry) types.Value {
	pairs := []any{
		"id", types.StringValue(e.ID),
		"authorText", types.StringValue(e.AuthorText),
		"title", types.StringValue(e.Title),
	}
	if e.ContainerTitle != "" {
		pairs = append(pairs, "containerTitle", types.StringValue(e.ContainerTitle))
	}
	if e.Volume != "" {
		pairs = append(pairs, "volume", types.StringValue(e.Volume))
	}
	if e.Issue != "" {
		pairs = append(pairs, "issue", types.StringValue(e.Issue))
	}
	if e.Page != "" {
		pairs = append(pairs, "page", types.StringValue(e.Page))
	}
	if e.Year != 0 {
		pairs = append(pairs, "year", types.NumberValue(float64(e.Year)))
	}
	if e.DOI != "" {
		pairs = append(pairs, "doi", types.StringValue(e.DOI))
	}
	if e.URL != "" {
		pairs = append(pairs, "url", types.StringValue(e.URL))
	}
	return types.MapValue(pairs...)
}
