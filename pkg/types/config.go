package types

import "time"

// TemplatesConfig holds settings for the template registry.
// Per prd005-templates R1.2-R1.4.
type TemplatesConfig struct {
	// Dir is an optional directory of template definition files loaded on
	// top of the embedded builtins (recursively).
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// CustomDir is an optional overlay directory whose definitions
	// override or extend the built-in set by name.
	CustomDir string `json:"custom_dir,omitempty" yaml:"custom_dir,omitempty"`
}

// ResolverConfig holds settings for the reference resolution stage.
// Per prd003-resolution R3.1-R3.5.
type ResolverConfig struct {
	// Command is the reference lookup executable (default "manubot").
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	// Timeout bounds the single batched lookup call (default 30s). A
	// timeout is reported as "resolver unavailable", never as a raw
	// transport error.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// CachePath is the path of the SQLite read-through reference cache.
	// Empty disables caching.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty"`
}

// IconsConfig holds settings for the icon registry.
// Per prd005-templates R4.1.
type IconsConfig struct {
	// CatalogPath is an optional YAML catalog overlaid on the built-in
	// icon set.
	CatalogPath string `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"`
}

// RenderConfig holds settings for assembly and formatting.
// Per prd006-render R1.1-R1.4.
type RenderConfig struct {
	// DefaultTheme is used when the document's meta declares no theme
	// (default "default").
	DefaultTheme string `json:"default_theme,omitempty" yaml:"default_theme,omitempty"`

	// Paginate emits the paginate front matter key.
	Paginate bool `json:"paginate,omitempty" yaml:"paginate,omitempty"`

	// MaxBibAuthors caps formatted author lists before truncating with
	// "et al." (default 3).
	MaxBibAuthors int `json:"max_bib_authors,omitempty" yaml:"max_bib_authors,omitempty"`
}

// PipelineConfig groups all stage configurations for one conversion run.
type PipelineConfig struct {
	Templates TemplatesConfig `json:"templates" yaml:"templates"`
	Resolver  ResolverConfig  `json:"resolver" yaml:"resolver"`
	Icons     IconsConfig     `json:"icons" yaml:"icons"`
	Render    RenderConfig    `json:"render" yaml:"render"`
}
