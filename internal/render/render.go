// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render assembles transformed slide fragments into the final
// Marp Markdown document.
// Implements: prd006-render (R1-R4);
//
//	docs/ARCHITECTURE § Rendering.
package render

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidegen/pkg/types"
)

// separator is the slide delimiter line required by the Marp engine.
const separator = "---"

// emptySlide stands in for a fragment that rendered to nothing, so slide
// count is preserved without producing consecutive separators (R3.2).
const emptySlide = "<!-- empty slide -->"

// frontMatter is the YAML block opening the output document. Field order
// here is emission order. Marp is the engine marker consumed by the
// rendering engine (R1.1).
type frontMatter struct {
	Marp     bool   `yaml:"marp"`
	Title    string `yaml:"title"`
	Theme    string `yaml:"theme"`
	Author   string `yaml:"author,omitempty"`
	Date     string `yaml:"date,omitempty"`
	Paginate bool   `yaml:"paginate,omitempty"`
}

// StyleBlock is one template's CSS contribution, keyed by template name.
// Dedup happens by name, not by CSS text equality (R2.2).
type StyleBlock struct {
	TemplateName string
	CSS          string
}

// Error reports a failure while assembling the final document.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("assembling output: %v", e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Assemble joins slide fragments with the separator line, prepends the
// front matter built from meta, and inserts a single deduplicated style
// block collected from the used templates. Fragment order is preserved
// exactly; the output never begins with a separator and never contains two
// consecutive separators with nothing between them (R3.1, R3.2).
func Assemble(meta types.Meta, fragments []string, styles []StyleBlock, cfg types.RenderConfig) (string, error) {
	fm := frontMatter{
		Marp:     true,
		Title:    meta.Title,
		Theme:    meta.Theme,
		Author:   meta.Author,
		Date:     meta.Date,
		Paginate: cfg.Paginate,
	}
	if fm.Theme == "" {
		fm.Theme = cfg.DefaultTheme
	}
	if fm.Theme == "" {
		fm.Theme = "default"
	}

	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", &Error{Err: err}
	}

	var b strings.Builder
	b.WriteString(separator + "\n")
	b.Write(head)
	b.WriteString(separator + "\n")

	if css := collectCSS(styles); css != "" {
		b.WriteString("\n<style>\n")
		b.WriteString(css)
		b.WriteString("</style>\n")
	}

	for i, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			fragment = emptySlide
		}
		if i > 0 {
			b.WriteString("\n" + separator + "\n")
		}
		b.WriteString("\n" + fragment + "\n")
	}

	return b.String(), nil
}

// collectCSS concatenates each template's CSS exactly once, in the order
// the styles were collected. Blocks with empty CSS contribute nothing.
func collectCSS(styles []StyleBlock) string {
	seen := make(map[string]bool, len(styles))
	var b strings.Builder
	for _, s := range styles {
		if s.CSS == "" || seen[s.TemplateName] {
			continue
		}
		seen[s.TemplateName] = true
		css := s.CSS
		if !strings.HasSuffix(css, "\n") {
			css += "\n"
		}
		b.WriteString(css)
	}
	return b.String()
}
