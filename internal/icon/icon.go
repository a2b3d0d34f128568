// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package icon resolves icon names and aliases to renderable markup. The
// built-in catalog ships embedded; a YAML catalog file can override or
// extend it. Remote icon fetching is a separate tool concern and never
// happens here.
// Implements: prd005-templates R4.1-R4.3.
package icon

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidegen/pkg/types"
)

//go:embed builtin.yaml
var builtinCatalog []byte

// catalogFile is the on-disk and embedded catalog shape.
type catalogFile struct {
	// Icons maps an icon name to its rendered markup.
	Icons map[string]string `yaml:"icons"`

	// Aliases maps alternative names to canonical icon names.
	Aliases map[string]string `yaml:"aliases"`
}

// Registry holds the merged icon catalog. It is populated once at
// initialization and read-only afterward, so concurrent transformer
// workers share it without synchronization.
type Registry struct {
	icons   map[string]string
	aliases map[string]string
}

// NewRegistry loads the built-in catalog and, when cfg names a catalog
// file, overlays it. A missing or malformed catalog file is an
// initialization error, not a per-run warning.
func NewRegistry(cfg types.IconsConfig) (*Registry, error) {
	r := &Registry{
		icons:   make(map[string]string),
		aliases: make(map[string]string),
	}

	if err := r.merge(builtinCatalog); err != nil {
		return nil, fmt.Errorf("loading built-in icon catalog: %w", err)
	}

	if cfg.CatalogPath != "" {
		data, err := os.ReadFile(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("reading icon catalog: %w", err)
		}
		if err := r.merge(data); err != nil {
			return nil, fmt.Errorf("parsing icon catalog %s: %w", cfg.CatalogPath, err)
		}
	}

	return r, nil
}

func (r *Registry) merge(data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	for name, markup := range file.Icons {
		r.icons[name] = markup
	}
	for alias, name := range file.Aliases {
		r.aliases[alias] = name
	}
	return nil
}

// Resolve returns the markup for an icon name or alias. Unknown names
// return ok=false; the caller decides how to degrade (the transformer
// records a warning and leaves the reference in place).
func (r *Registry) Resolve(name string) (string, bool) {
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	markup, ok := r.icons[name]
	return markup, ok
}

// Len reports the number of canonical icons in the registry.
func (r *Registry) Len() int {
	return len(r.icons)
}
