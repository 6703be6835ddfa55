package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/mocks"
	"github.com/user/stillcut/pkg/pipeline"
)

// mockExtractStage is a mock for the extract stage.
type mockExtractStage struct {
	result pipeline.ExtractResult
	err    error
	inputs []pipeline.ExtractInput
}

func (m *mockExtractStage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return pipeline.ExtractResult{}, m.err
	}
	return m.result, nil
}

// mockSheetStage is a mock for the sheet stage.
type mockSheetStage struct {
	result pipeline.SheetResult
	err    error
	inputs []pipeline.SheetInput
}

func (m *mockSheetStage) Execute(ctx context.Context, input pipeline.SheetInput) (pipeline.SheetResult, error) {
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return pipeline.SheetResult{}, m.err
	}
	return m.result, nil
}

func extractedFixture() pipeline.ExtractResult {
	return pipeline.ExtractResult{
		Format:     "mp4",
		DurationMS: 2000,
		BitRate:    800000,
		Stream: media.StreamInfo{
			Index: 0, Type: media.MediaVideo, Codec: media.CodecH264,
			Width: 640, Height: 360, FrameRate: 30,
		},
		PacketsRead:  12,
		PacketsSent:  11,
		LimitHit:     true,
		FramesSaved:  2,
		BytesWritten: 2048,
		Frames: []pipeline.SavedFrame{
			{Index: 0, Name: "frame-0.png", Path: "output/frame-0.png", PTSMS: 0, Bytes: 1024, PictureType: 'I'},
			{Index: 1, Name: "frame-1.png", Path: "output/frame-1.png", PTSMS: 33, Bytes: 1024, PictureType: 'P'},
		},
	}
}

func TestOrchestrator_Run(t *testing.T) {
	extract := &mockExtractStage{result: extractedFixture()}
	sheet := &mockSheetStage{}
	fs := mocks.NewFileSystem()

	orch := New(extract, sheet, fs, mocks.NewLogger())

	config := DefaultConfig()
	config.InputPath = "movie.mp4"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(extract.inputs) != 1 {
		t.Fatalf("expected one extract execution, got %d", len(extract.inputs))
	}
	in := extract.inputs[0]
	if in.Path != "movie.mp4" || in.Limit != 10 || in.Drain != pipeline.DrainDrop {
		t.Errorf("unexpected extract input: %+v", in)
	}

	if result.FramesSaved != 2 || result.PacketsSent != 11 || !result.LimitHit {
		t.Errorf("result not carried from the stage: %+v", result)
	}
	if len(sheet.inputs) != 0 {
		t.Error("sheet stage must not run unless enabled")
	}
	if len(fs.GetAllFiles()) != 0 {
		t.Error("nothing should be written without sheet or summary")
	}
}

func TestOrchestrator_Run_ExtractError(t *testing.T) {
	stageErr := errors.New("no video stream")
	extract := &mockExtractStage{err: stageErr}

	orch := New(extract, &mockSheetStage{}, mocks.NewFileSystem(), mocks.NewLogger())

	_, err := orch.Run(context.Background(), DefaultConfig())
	if !errors.Is(err, stageErr) {
		t.Fatalf("expected the stage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "extract stage") {
		t.Errorf("expected extract stage wrap, got %v", err)
	}
}

func TestOrchestrator_Run_InvalidDrain(t *testing.T) {
	extract := &mockExtractStage{result: extractedFixture()}
	orch := New(extract, &mockSheetStage{}, mocks.NewFileSystem(), mocks.NewLogger())

	config := DefaultConfig()
	config.Drain = "bogus"

	_, err := orch.Run(context.Background(), config)
	if err == nil || !strings.Contains(err.Error(), "configuration") {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(extract.inputs) != 0 {
		t.Error("extraction must not start on a bad drain policy")
	}
}

func TestOrchestrator_Run_WithSheet(t *testing.T) {
	extract := &mockExtractStage{result: extractedFixture()}
	sheet := &mockSheetStage{result: pipeline.SheetResult{Data: []byte{1, 2, 3}, Cells: 2}}
	fs := mocks.NewFileSystem()

	orch := New(extract, sheet, fs, mocks.NewLogger())

	config := DefaultConfig()
	config.InputPath = "movie.mp4"
	config.SheetEnabled = true
	config.SheetColumns = 3

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sheet.inputs) != 1 {
		t.Fatalf("expected one sheet execution, got %d", len(sheet.inputs))
	}
	if sheet.inputs[0].Columns != 3 || len(sheet.inputs[0].Frames) != 2 {
		t.Errorf("unexpected sheet input: %+v", sheet.inputs[0])
	}

	if result.SheetPath != "output/sheet.png" {
		t.Errorf("expected default sheet path, got %s", result.SheetPath)
	}
	if result.SheetBytes != 3 {
		t.Errorf("expected 3 sheet bytes, got %d", result.SheetBytes)
	}
	if data, ok := fs.GetFile("output/sheet.png"); !ok || len(data) != 3 {
		t.Error("sheet not written to the filesystem")
	}
}

func TestOrchestrator_Run_SheetPathOverride(t *testing.T) {
	extract := &mockExtractStage{result: extractedFixture()}
	sheet := &mockSheetStage{result: pipeline.SheetResult{Data: []byte{1}, Cells: 2}}
	fs := mocks.NewFileSystem()

	orch := New(extract, sheet, fs, mocks.NewLogger())

	config := DefaultConfig()
	config.SheetEnabled = true
	config.SheetPath = "grid.png"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.SheetPath != "grid.png" {
		t.Errorf("expected grid.png, got %s", result.SheetPath)
	}
	if _, ok := fs.GetFile("grid.png"); !ok {
		t.Error("sheet not written to the override path")
	}
}

func TestOrchestrator_Run_SheetError(t *testing.T) {
	extract := &mockExtractStage{result: extractedFixture()}
	sheet := &mockSheetStage{err: errors.New("compose failed")}

	orch := New(extract, sheet, mocks.NewFileSystem(), mocks.NewLogger())

	config := DefaultConfig()
	config.SheetEnabled = true

	_, err := orch.Run(context.Background(), config)
	if err == nil || !strings.Contains(err.Error(), "sheet stage") {
		t.Fatalf("expected sheet stage error, got %v", err)
	}
}

func TestOrchestrator_Run_WithSummary(t *testing.T) {
	extract := &mockExtractStage{result: extractedFixture()}
	fs := mocks.NewFileSystem()

	orch := New(extract, &mockSheetStage{}, fs, mocks.NewLogger())

	config := DefaultConfig()
	config.InputPath = "movie.mp4"
	config.SummaryPath = "output/summary.md"
	config.Version = "v0.9.0"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.SummaryPath != "output/summary.md" {
		t.Errorf("expected summary path in result, got %s", result.SummaryPath)
	}

	data, ok := fs.GetFile("output/summary.md")
	if !ok {
		t.Fatal("summary not written")
	}
	content := string(data)
	for _, want := range []string{"Extraction Summary", "movie.mp4", "frame-0.png", "v0.9.0", "640x360"} {
		if !strings.Contains(content, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestOrchestrator_Run_SummaryError(t *testing.T) {
	extract := &mockExtractStage{result: extractedFixture()}
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("read-only")
	}

	orch := New(extract, &mockSheetStage{}, fs, mocks.NewLogger())

	config := DefaultConfig()
	config.SummaryPath = "summary.md"

	_, err := orch.Run(context.Background(), config)
	if err == nil || !strings.Contains(err.Error(), "write summary") {
		t.Fatalf("expected summary write error, got %v", err)
	}
}

func TestOrchestrator_Run_DryRunSkipsArtifacts(t *testing.T) {
	extract := &mockExtractStage{result: extractedFixture()}
	sheet := &mockSheetStage{result: pipeline.SheetResult{Data: []byte{1}}}
	fs := mocks.NewFileSystem()

	orch := New(extract, sheet, fs, mocks.NewLogger())

	config := DefaultConfig()
	config.DryRun = true
	config.SheetEnabled = true
	config.SummaryPath = "summary.md"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(sheet.inputs) != 0 {
		t.Error("sheet stage must not run in dry run")
	}
	if result.SheetPath != "" || result.SummaryPath != "" {
		t.Errorf("dry run must not report artifacts: %+v", result)
	}
	if len(fs.GetAllFiles()) != 0 {
		t.Error("dry run must not write files")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Limit != 10 {
		t.Errorf("expected limit 10, got %d", config.Limit)
	}
	if config.OutputDir != "output" {
		t.Errorf("expected output dir 'output', got %s", config.OutputDir)
	}
	if config.Pattern != "frame-%d.png" {
		t.Errorf("expected pattern 'frame-%%d.png', got %s", config.Pattern)
	}
	if config.Drain != "drop" {
		t.Errorf("expected drain 'drop', got %s", config.Drain)
	}
	if config.SheetColumns != 4 {
		t.Errorf("expected 4 sheet columns, got %d", config.SheetColumns)
	}
}
