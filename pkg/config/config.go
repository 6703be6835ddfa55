// Package config provides configuration loading and management.
package config

import (
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/stillcut/pkg/orchestrator"
	"github.com/user/stillcut/pkg/pipeline"
	"github.com/user/stillcut/pkg/stillcut"
)

// Config represents the full configuration for stillcut.
type Config struct {
	// Extraction
	Limit   int    `yaml:"limit"`
	Output  string `yaml:"output"`
	Pattern string `yaml:"pattern"`
	Drain   string `yaml:"drain"`

	// Decoding
	FFmpegPath string `yaml:"ffmpeg"`

	// Contact sheet
	Sheet SheetConfig `yaml:"sheet"`

	// Run summary
	SummaryPath string `yaml:"summary"`

	// Behavior
	DryRun   bool   `yaml:"dry_run"`
	LogLevel string `yaml:"log_level"`
	Lang     string `yaml:"lang"`
}

// SheetConfig represents contact sheet settings.
type SheetConfig struct {
	Enabled   bool        `yaml:"enabled"`
	Path      string      `yaml:"path"`
	Columns   int         `yaml:"columns"`
	CellWidth int         `yaml:"cell_width"`
	Padding   int         `yaml:"padding"`
	FontSize  float64     `yaml:"font_size"`
	Workers   int         `yaml:"workers"`
	Theme     ThemeConfig `yaml:"theme"`
}

// ThemeConfig represents contact sheet theming options.
type ThemeConfig struct {
	BackgroundColor string `yaml:"background_color"`
	LabelColor      string `yaml:"label_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	base := orchestrator.DefaultConfig()
	return Config{
		Limit:   base.Limit,
		Output:  base.OutputDir,
		Pattern: base.Pattern,
		Drain:   base.Drain,

		Sheet: SheetConfig{
			Columns:   base.SheetColumns,
			CellWidth: base.SheetCellWidth,
			Padding:   base.SheetPadding,
			FontSize:  base.SheetFontSize,
			Workers:   base.SheetWorkers,
			Theme: ThemeConfig{
				BackgroundColor: "#202024",
				LabelColor:      "#e8e8e8",
			},
		},

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseColor parses a hex color string ("#RRGGBB") to color.Color.
// Malformed values fall back to black.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return color.Black
	}

	var rgb [3]uint8
	for i := range rgb {
		rgb[i] = hexValue(hex[2*i])<<4 | hexValue(hex[2*i+1])
	}

	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// ToBuilder seeds a stillcut.ConfigBuilder with the loaded file
// values, so flag overrides and validation run through the one
// builder path. The drain string passes through unparsed; the
// orchestrator validates it at run time.
func (c Config) ToBuilder() *stillcut.ConfigBuilder {
	return stillcut.NewConfigBuilder().
		WithLimit(c.Limit).
		WithPattern(c.Pattern).
		WithDrain(pipeline.DrainPolicy(c.Drain)).
		WithOutputDir(c.Output).
		WithDryRun(c.DryRun).
		WithFFmpegPath(c.FFmpegPath).
		WithContactSheet(c.Sheet.Enabled).
		WithSheetPath(c.Sheet.Path).
		WithSheetColumns(c.Sheet.Columns).
		WithSheetCellWidth(c.Sheet.CellWidth).
		WithSheetPadding(c.Sheet.Padding).
		WithSheetFontSize(c.Sheet.FontSize).
		WithSheetWorkers(c.Sheet.Workers).
		WithSummaryPath(c.SummaryPath)
}
