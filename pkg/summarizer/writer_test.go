package summarizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/stillcut/pkg/mocks"
)

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	formatter := FormatFunc(func(s *Summary) string {
		return "formatted: " + s.Input.Path
	})

	writer := NewWriter(fs, formatter)

	summary := NewSummary()
	summary.Input.Path = "movie.mp4"

	if err := writer.Write("output/summary.md", summary); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, ok := fs.GetFile("output/summary.md")
	if !ok {
		t.Fatal("summary file not written")
	}
	if string(data) != "formatted: movie.mp4" {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestWriter_Write_BarePath(t *testing.T) {
	fs := mocks.NewFileSystem()
	mkdirCalled := false
	fs.MkdirAllFunc = func(path string) error {
		mkdirCalled = true
		return nil
	}

	writer := NewWriter(fs, FormatFunc(func(*Summary) string { return "x" }))

	if err := writer.Write("summary.md", NewSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if mkdirCalled {
		t.Error("no directory should be created for a bare file name")
	}
}

func TestWriter_Write_MkdirError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAllFunc = func(path string) error {
		return errors.New("permission denied")
	}

	writer := NewWriter(fs, FormatFunc(func(*Summary) string { return "x" }))

	err := writer.Write("output/summary.md", NewSummary())
	if err == nil || !strings.Contains(err.Error(), "create directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestWriter_Write_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("disk full")
	}

	writer := NewWriter(fs, FormatFunc(func(*Summary) string { return "x" }))

	err := writer.Write("summary.md", NewSummary())
	if err == nil || !strings.Contains(err.Error(), "write file") {
		t.Fatalf("expected write error, got %v", err)
	}
}
