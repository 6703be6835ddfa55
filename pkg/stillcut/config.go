// Package stillcut provides a high-level API for extracting stills from media files.
package stillcut

import (
	"github.com/user/stillcut/pkg/orchestrator"
	"github.com/user/stillcut/pkg/pipeline"
)

// SheetPreset represents a contact sheet size preset name.
type SheetPreset string

const (
	SheetSmall  SheetPreset = "small"
	SheetMedium SheetPreset = "medium"
	SheetLarge  SheetPreset = "large"
)

// SheetSettings contains sizing parameters for contact sheet cells.
type SheetSettings struct {
	CellWidth int     // Thumbnail width in pixels
	FontSize  float64 // Label font size
}

// GetSheetSettings returns sheet settings for the given preset.
func GetSheetSettings(preset SheetPreset) SheetSettings {
	switch preset {
	case SheetSmall:
		return SheetSettings{
			CellWidth: 160,
			FontSize:  11,
		}
	case SheetLarge:
		return SheetSettings{
			CellWidth: 480,
			FontSize:  16,
		}
	default: // medium
		return SheetSettings{
			CellWidth: 320,
			FontSize:  13,
		}
	}
}

// Config represents the configuration for still extraction.
type Config struct {
	// Extraction
	Limit   int                  // Packet budget on the chosen video stream (min: 1)
	Pattern string               // Output file name pattern with one %d verb
	Drain   pipeline.DrainPolicy // Buffered-frame handling at stop

	// Output
	OutputDir string // Directory for the stills; must already exist
	DryRun    bool   // Run the full pipeline but discard output

	// Decoding
	FFmpegPath string // Explicit ffmpeg location (empty = search)

	// Contact sheet
	SheetEnabled   bool    // Compose a contact sheet after extraction
	SheetPath      string  // Sheet location (default: <OutputDir>/sheet.png)
	SheetColumns   int     // Grid columns (min: 1)
	SheetCellWidth int     // Thumbnail width in pixels
	SheetPadding   int     // Padding around and between cells
	SheetFontSize  float64 // Label font size
	SheetWorkers   int     // Thumbnail scaling goroutines (0 = one per CPU)

	// Summary
	SummaryPath string // Markdown run summary location (empty = none)
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with extraction defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: extractionDefaults(),
	}
}

// NewContactSheetConfigBuilder creates a new ConfigBuilder with the
// contact sheet enabled.
func NewContactSheetConfigBuilder() *ConfigBuilder {
	cfg := extractionDefaults()
	cfg.SheetEnabled = true
	return &ConfigBuilder{
		config: cfg,
	}
}

// extractionDefaults returns the baseline configuration.
func extractionDefaults() Config {
	base := orchestrator.DefaultConfig()
	return Config{
		// Extraction
		Limit:   base.Limit,
		Pattern: base.Pattern,
		Drain:   pipeline.DrainDrop,

		// Output
		OutputDir: base.OutputDir,

		// Contact sheet (medium preset)
		SheetColumns:   base.SheetColumns,
		SheetCellWidth: base.SheetCellWidth,
		SheetPadding:   base.SheetPadding,
		SheetFontSize:  base.SheetFontSize,
		SheetWorkers:   base.SheetWorkers,
	}
}

// Build returns the final Config, applying validation and constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config

	// Enforce minimum limit of 1
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}

	// Enforce minimum columns of 1
	if cfg.SheetColumns < 1 {
		cfg.SheetColumns = 1
	}

	// An empty pattern would produce unusable file names
	if cfg.Pattern == "" {
		cfg.Pattern = pipeline.DefaultExtractInput().Pattern
	}

	return cfg
}

// WithLimit sets the packet budget on the chosen video stream.
// Values below 1 will be forced to 1.
func (b *ConfigBuilder) WithLimit(limit int) *ConfigBuilder {
	b.config.Limit = limit
	return b
}

// WithPattern sets the output file name pattern (one %d verb).
func (b *ConfigBuilder) WithPattern(pattern string) *ConfigBuilder {
	b.config.Pattern = pattern
	return b
}

// WithDrain sets the buffered-frame handling at stop.
func (b *ConfigBuilder) WithDrain(drain pipeline.DrainPolicy) *ConfigBuilder {
	b.config.Drain = drain
	return b
}

// WithOutputDir sets the directory the stills are written to.
// The directory must already exist at run time.
func (b *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	b.config.OutputDir = dir
	return b
}

// WithDryRun enables running the full pipeline while discarding output.
func (b *ConfigBuilder) WithDryRun(dryRun bool) *ConfigBuilder {
	b.config.DryRun = dryRun
	return b
}

// WithFFmpegPath sets an explicit ffmpeg executable location.
func (b *ConfigBuilder) WithFFmpegPath(path string) *ConfigBuilder {
	b.config.FFmpegPath = path
	return b
}

// WithContactSheet enables or disables contact sheet composition.
func (b *ConfigBuilder) WithContactSheet(enabled bool) *ConfigBuilder {
	b.config.SheetEnabled = enabled
	return b
}

// WithSheetPath sets the contact sheet location.
func (b *ConfigBuilder) WithSheetPath(path string) *ConfigBuilder {
	b.config.SheetPath = path
	return b
}

// WithSheetColumns sets the number of grid columns.
// Values below 1 will be forced to 1.
func (b *ConfigBuilder) WithSheetColumns(columns int) *ConfigBuilder {
	b.config.SheetColumns = columns
	return b
}

// WithSheetCellWidth sets the thumbnail width in pixels.
func (b *ConfigBuilder) WithSheetCellWidth(width int) *ConfigBuilder {
	b.config.SheetCellWidth = width
	return b
}

// WithSheetPadding sets the padding around and between cells.
func (b *ConfigBuilder) WithSheetPadding(padding int) *ConfigBuilder {
	b.config.SheetPadding = padding
	return b
}

// WithSheetFontSize sets the label font size.
func (b *ConfigBuilder) WithSheetFontSize(size float64) *ConfigBuilder {
	b.config.SheetFontSize = size
	return b
}

// WithSheetWorkers sets the number of thumbnail scaling goroutines.
// Use 0 for one per CPU.
func (b *ConfigBuilder) WithSheetWorkers(workers int) *ConfigBuilder {
	b.config.SheetWorkers = workers
	return b
}

// WithSheetPreset applies a sheet size preset (small, medium, large).
func (b *ConfigBuilder) WithSheetPreset(preset SheetPreset) *ConfigBuilder {
	settings := GetSheetSettings(preset)
	b.config.SheetCellWidth = settings.CellWidth
	b.config.SheetFontSize = settings.FontSize
	return b
}

// WithSummaryPath sets the markdown run summary location.
func (b *ConfigBuilder) WithSummaryPath(path string) *ConfigBuilder {
	b.config.SummaryPath = path
	return b
}

// ToOrchestratorConfig converts Config to orchestrator.Config for the
// given input file.
func (c Config) ToOrchestratorConfig(inputPath string) orchestrator.Config {
	return orchestrator.Config{
		InputPath: inputPath,

		// Extraction
		Limit:   c.Limit,
		Pattern: c.Pattern,
		Drain:   string(c.Drain),

		// Output
		OutputDir: c.OutputDir,
		DryRun:    c.DryRun,

		// Contact sheet
		SheetEnabled:   c.SheetEnabled,
		SheetPath:      c.SheetPath,
		SheetColumns:   c.SheetColumns,
		SheetCellWidth: c.SheetCellWidth,
		SheetPadding:   c.SheetPadding,
		SheetFontSize:  c.SheetFontSize,
		SheetWorkers:   c.SheetWorkers,

		// Summary
		SummaryPath: c.SummaryPath,
	}
}
