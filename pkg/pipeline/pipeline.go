// Package pipeline provides the chart pipeline shared by the CLI and the
// render service.
//
// This package implements the complete parse → layout → render pipeline.
// By centralizing this logic, the CLI and the HTTP API produce identical
// output for identical input and share one caching scheme.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a chart document (JSON or HuJSON) or an energy summary
//     (TOML) into a [chart.Chart]
//  2. Layout: Compute node positions and ribbon paths
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	c, err := pipeline.ParseFile("energy.toml", pipeline.DefaultWidth)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, c, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	layout, err := runner.ComputeLayout(ctx, c, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/fonts"
	"github.com/matzehuels/sankeyflow/pkg/sankey"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default chart width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default chart height in pixels.
	DefaultHeight = 400.0

	// DefaultScale is the default PNG pixel density.
	DefaultScale = 2.0

	// MaxScale bounds the PNG pixel density.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// Orientation values. An empty orientation keeps the chart's own.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// Text measurers used to size labels.
const (
	MeasurerFont  = "gofont"
	MeasurerTable = "table"
)

// DefaultMeasurer measures labels with the embedded Go font.
const DefaultMeasurer = MeasurerFont

// ValidMeasurers is the set of supported text measurers.
var ValidMeasurers = map[string]bool{
	MeasurerFont:  true,
	MeasurerTable: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	Measurer    string  `json:"measurer,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	CSSVars     bool     `json:"css_vars,omitempty"` // keep var(--x) colors for embedding in themed pages
	Background  string   `json:"background,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Chart is the pipeline input.
	Chart chart.Chart

	// ChartHash is the content hash of the chart.
	ChartHash string

	// Layout is the computed layout.
	Layout chart.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LinkCount  int
	Columns    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrientation checks that an orientation is valid.
func ValidateOrientation(o string) error {
	switch o {
	case "", OrientationHorizontal, OrientationVertical:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid orientation: %q (must be horizontal or vertical)", o)
}

// ValidateMeasurer checks that a text measurer name is valid.
func ValidateMeasurer(m string) error {
	if !ValidMeasurers[m] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid measurer: %q (must be one of: gofont, table)", m)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the full pipeline
// options. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := ValidateOrientation(o.Orientation); err != nil {
		return err
	}
	return ValidateMeasurer(o.Measurer)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	return ValidateMeasurer(o.Measurer)
}

// Vertical resolves the orientation for a chart.
func (o *Options) Vertical(c chart.Chart) bool {
	switch o.Orientation {
	case OrientationVertical:
		return true
	case OrientationHorizontal:
		return false
	}
	return c.Vertical
}

// TextMeasurer returns the measurer selected by o.Measurer.
func (o *Options) TextMeasurer() sankey.TextMeasurer {
	if o.Measurer == MeasurerTable {
		return fonts.Table{}
	}
	return fonts.Default()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(c chart.Chart) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		Vertical: o.Vertical(c),
		Measurer: o.Measurer,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Interactive: o.Interactive,
		CSSVars:     o.CSSVars,
		Background:  o.Background,
		Measurer:    o.Measurer,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
