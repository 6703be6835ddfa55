package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Limit != 10 {
		t.Errorf("expected limit 10, got %d", cfg.Limit)
	}
	if cfg.Output != "output" {
		t.Errorf("expected output 'output', got %s", cfg.Output)
	}
	if cfg.Pattern != "frame-%d.png" {
		t.Errorf("expected default pattern, got %s", cfg.Pattern)
	}
	if cfg.Drain != "drop" {
		t.Errorf("expected drain 'drop', got %s", cfg.Drain)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.LogLevel)
	}
	if cfg.Sheet.Enabled {
		t.Error("sheet should be disabled by default")
	}
	if cfg.Sheet.Columns != 4 || cfg.Sheet.CellWidth != 320 {
		t.Errorf("unexpected sheet defaults: %+v", cfg.Sheet)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
limit: 25
output: stills
drain: flush
ffmpeg: /opt/ffmpeg/bin/ffmpeg
sheet:
  enabled: true
  columns: 6
  theme:
    background_color: "#000000"
summary: stills/summary.md
log_level: debug
lang: ja
`
	path := filepath.Join(t.TempDir(), "stillcut.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Limit != 25 {
		t.Errorf("expected limit 25, got %d", cfg.Limit)
	}
	if cfg.Output != "stills" || cfg.Drain != "flush" {
		t.Errorf("extraction options not loaded: %+v", cfg)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ffmpeg path not loaded: %s", cfg.FFmpegPath)
	}
	if !cfg.Sheet.Enabled || cfg.Sheet.Columns != 6 {
		t.Errorf("sheet options not loaded: %+v", cfg.Sheet)
	}
	if cfg.Sheet.Theme.BackgroundColor != "#000000" {
		t.Errorf("theme not loaded: %+v", cfg.Sheet.Theme)
	}
	if cfg.SummaryPath != "stills/summary.md" {
		t.Errorf("summary path not loaded: %s", cfg.SummaryPath)
	}
	if cfg.LogLevel != "debug" || cfg.Lang != "ja" {
		t.Errorf("behavior options not loaded: %+v", cfg)
	}

	// Unset keys keep their defaults.
	if cfg.Pattern != "frame-%d.png" {
		t.Errorf("pattern default lost: %s", cfg.Pattern)
	}
	if cfg.Sheet.CellWidth != 320 {
		t.Errorf("cell width default lost: %d", cfg.Sheet.CellWidth)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if cfg.Limit != 10 {
		t.Errorf("defaults should still be returned, got limit %d", cfg.Limit)
	}
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("limit: [not a number"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		hex  string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"00ff00", color.RGBA{G: 255, A: 255}},
		{"#1A2b3C", color.RGBA{R: 0x1A, G: 0x2B, B: 0x3C, A: 255}},
		{"#fff", color.RGBA{A: 255}}, // short form unsupported
		{"", color.RGBA{A: 255}},
	}

	for _, tt := range tests {
		got := ParseColor(tt.hex)
		r, g, b, a := got.RGBA()
		wr, wg, wb, wa := tt.want.RGBA()
		if r != wr || g != wg || b != wb || a != wa {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestToBuilder(t *testing.T) {
	cfg := Defaults()
	cfg.Limit = 7
	cfg.Output = "stills"
	cfg.DryRun = true
	cfg.FFmpegPath = "/opt/ffmpeg/bin/ffmpeg"
	cfg.Sheet.Enabled = true
	cfg.Sheet.Columns = 5
	cfg.SummaryPath = "summary.md"

	built := cfg.ToBuilder().Build()

	if built.Limit != 7 || built.OutputDir != "stills" || !built.DryRun {
		t.Errorf("extraction options not mapped: %+v", built)
	}
	if built.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ffmpeg path not mapped: %s", built.FFmpegPath)
	}
	if !built.SheetEnabled || built.SheetColumns != 5 {
		t.Errorf("sheet options not mapped: %+v", built)
	}
	if built.SummaryPath != "summary.md" {
		t.Errorf("summary path not mapped: %s", built.SummaryPath)
	}

	oc := built.ToOrchestratorConfig("movie.mp4")
	if oc.InputPath != "movie.mp4" || oc.Limit != 7 || oc.Drain != "drop" {
		t.Errorf("orchestrator mapping wrong: %+v", oc)
	}
}

// Builder validation applies to file values the same as to flags.
func TestToBuilder_ClampsInvalidValues(t *testing.T) {
	cfg := Defaults()
	cfg.Limit = 0
	cfg.Sheet.Columns = -3
	cfg.Pattern = ""

	built := cfg.ToBuilder().Build()

	if built.Limit != 1 {
		t.Errorf("limit not clamped: %d", built.Limit)
	}
	if built.SheetColumns != 1 {
		t.Errorf("columns not clamped: %d", built.SheetColumns)
	}
	if built.Pattern == "" {
		t.Error("empty pattern not replaced")
	}
}
