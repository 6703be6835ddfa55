package filesink

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/stillcut/pkg/mocks"
)

func TestSink_Save(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("output", fs)

	data := []byte{0x89, 0x50, 0x4E, 0x47}
	path, err := sink.Save("frame-0.png", data)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	expected := filepath.Join("output", "frame-0.png")
	if path != expected {
		t.Errorf("expected path %s, got %s", expected, path)
	}

	saved, ok := fs.GetFile(expected)
	if !ok {
		t.Fatalf("expected file at %s", expected)
	}
	if string(saved) != string(data) {
		t.Errorf("saved bytes differ: %v", saved)
	}
}

func TestSink_SaveDoesNotCreateDirectory(t *testing.T) {
	fs := mocks.NewFileSystem()
	mkdirCalled := false
	fs.MkdirAllFunc = func(path string) error {
		mkdirCalled = true
		return nil
	}
	sink := New("output", fs)

	if _, err := sink.Save("frame-0.png", []byte{1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if mkdirCalled {
		t.Error("the sink must never create the output directory")
	}
}

func TestSink_SaveError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("no such directory")
	}
	sink := New("output", fs)

	_, err := sink.Save("frame-3.png", []byte{1})
	if err == nil {
		t.Fatal("expected an error from the filesystem")
	}
	if !strings.Contains(err.Error(), "frame-3.png") {
		t.Errorf("error should name the frame: %v", err)
	}
}

func TestSink_SaveMultiple(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("stills", fs)

	for i := 0; i < 5; i++ {
		name := "frame-" + string(rune('0'+i)) + ".png"
		if _, err := sink.Save(name, []byte{byte(i)}); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	if got := len(fs.GetAllFiles()); got != 5 {
		t.Errorf("expected 5 files, got %d", got)
	}
}
