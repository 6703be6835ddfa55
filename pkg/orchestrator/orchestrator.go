// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/pipeline"
	"github.com/user/stillcut/pkg/ports"
	"github.com/user/stillcut/pkg/summarizer"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	InputPath string

	// Extraction
	Limit   int
	Pattern string
	Drain   string // drop or flush

	// Output
	OutputDir string
	DryRun    bool

	// Contact sheet
	SheetEnabled   bool
	SheetPath      string // default <OutputDir>/sheet.png
	SheetColumns   int
	SheetCellWidth int
	SheetPadding   int
	SheetFontSize  float64
	SheetWorkers   int

	// Run summary
	SummaryPath string

	// Version shown in the summary
	Version string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	extract := pipeline.DefaultExtractInput()
	sheet := pipeline.DefaultSheetInput()
	return Config{
		Limit:   extract.Limit,
		Pattern: extract.Pattern,
		Drain:   string(extract.Drain),

		OutputDir: "output",

		SheetColumns:   sheet.Columns,
		SheetCellWidth: sheet.CellWidth,
		SheetPadding:   sheet.Padding,
		SheetFontSize:  sheet.FontSize,
		SheetWorkers:   sheet.Workers,
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult]
	sheetStage   pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult]
	fs           ports.FileSystem
	logger       ports.Logger
}

// New creates a new Orchestrator.
func New(
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult],
	sheetStage pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult],
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractStage: extractStage,
		sheetStage:   sheetStage,
		fs:           fs,
		logger:       logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()

	drain, err := pipeline.ParseDrainPolicy(config.Drain)
	if err != nil {
		return RunResult{}, fmt.Errorf("configuration: %w", err)
	}

	// 1. Extract stills
	o.logger.Info(l10n.F("Extracting up to %d frames from %s", config.Limit, config.InputPath))
	extracted, err := o.extractStage.Execute(ctx, pipeline.ExtractInput{
		Path:    config.InputPath,
		Limit:   config.Limit,
		Drain:   drain,
		Pattern: config.Pattern,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to extract frames: %s", err))
		return RunResult{}, fmt.Errorf("extract stage: %w", err)
	}
	o.logger.Info(l10n.F("Extracted %d frames from %d packets", extracted.FramesSaved, extracted.PacketsSent))

	result := RunResult{
		Format:       extracted.Format,
		DurationMS:   extracted.DurationMS,
		BitRate:      extracted.BitRate,
		Stream:       extracted.Stream,
		PacketsRead:  extracted.PacketsRead,
		PacketsSent:  extracted.PacketsSent,
		LimitHit:     extracted.LimitHit,
		FramesSaved:  extracted.FramesSaved,
		BytesWritten: extracted.BytesWritten,
		Frames:       extracted.Frames,
	}

	// 2. Contact sheet (optional)
	if config.SheetEnabled {
		if config.DryRun {
			o.logger.Debug("Skipping contact sheet in dry run")
		} else if len(extracted.Frames) > 0 {
			sheetPath, sheetBytes, err := o.composeSheet(ctx, config, extracted.Frames)
			if err != nil {
				o.logger.Error(l10n.F("Failed to compose contact sheet: %s", err))
				return result, err
			}
			result.SheetPath = sheetPath
			result.SheetBytes = sheetBytes
			o.logger.Info(l10n.F("Contact sheet saved to %s", sheetPath))
		}
	}

	result.ElapsedMS = time.Since(start).Milliseconds()

	// 3. Run summary (optional)
	if config.SummaryPath != "" {
		if config.DryRun {
			o.logger.Debug("Skipping summary in dry run")
		} else {
			if err := o.writeSummary(config, result); err != nil {
				o.logger.Error(l10n.F("Failed to write summary: %s", err))
				return result, fmt.Errorf("write summary: %w", err)
			}
			result.SummaryPath = config.SummaryPath
			o.logger.Info(l10n.F("Summary saved to %s", config.SummaryPath))
		}
	}

	o.logger.Info(l10n.T("Pipeline completed successfully"))
	return result, nil
}

// composeSheet runs the sheet stage and writes the result.
func (o *Orchestrator) composeSheet(ctx context.Context, config Config, frames []pipeline.SavedFrame) (string, int, error) {
	sheet, err := o.sheetStage.Execute(ctx, pipeline.SheetInput{
		Frames:    frames,
		Columns:   config.SheetColumns,
		CellWidth: config.SheetCellWidth,
		Padding:   config.SheetPadding,
		FontSize:  config.SheetFontSize,
		Workers:   config.SheetWorkers,
	})
	if err != nil {
		return "", 0, fmt.Errorf("sheet stage: %w", err)
	}

	path := config.SheetPath
	if path == "" {
		path = filepath.Join(config.OutputDir, "sheet.png")
	}
	if err := o.fs.WriteFile(path, sheet.Data); err != nil {
		return "", 0, fmt.Errorf("write sheet: %w", err)
	}
	return path, len(sheet.Data), nil
}

// writeSummary renders the run summary as Markdown.
func (o *Orchestrator) writeSummary(config Config, result RunResult) error {
	frames := make([]summarizer.FrameInfo, len(result.Frames))
	for i, f := range result.Frames {
		frames[i] = summarizer.FrameInfo{
			Index: f.Index,
			Name:  f.Name,
			PTSMS: f.PTSMS,
			Type:  string(rune(f.PictureType)),
			Bytes: f.Bytes,
		}
	}

	summary := summarizer.NewBuilder().
		WithInput(config.InputPath, result.Format, result.DurationMS, result.BitRate).
		WithStream(summarizer.StreamInfo{
			Index:     result.Stream.Index,
			Codec:     result.Stream.Codec.String(),
			Width:     result.Stream.Width,
			Height:    result.Stream.Height,
			FrameRate: result.Stream.FrameRate,
		}).
		WithExtraction(summarizer.ExtractionInfo{
			Limit:       config.Limit,
			PacketsRead: result.PacketsRead,
			PacketsSent: result.PacketsSent,
			LimitHit:    result.LimitHit,
			Drain:       config.Drain,
			ElapsedMS:   result.ElapsedMS,
		}).
		WithOutput(config.OutputDir, result.BytesWritten).
		WithFrames(frames).
		WithSheet(result.SheetPath).
		Build()

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(config.Version),
	)
	return summarizer.NewWriter(o.fs, formatter).Write(config.SummaryPath, summary)
}

// RunResult contains the results of a pipeline run.
type RunResult struct {
	Format       string
	DurationMS   int64
	BitRate      int64
	Stream       media.StreamInfo
	PacketsRead  int
	PacketsSent  int
	LimitHit     bool
	FramesSaved  int
	BytesWritten int64
	Frames       []pipeline.SavedFrame
	SheetPath    string
	SheetBytes   int
	SummaryPath  string
	ElapsedMS    int64
}
