package formatdetect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user/stillcut/pkg/media"
)

func TestDetectBytes(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Format
	}{
		{"ftyp", []byte{0, 0, 0, 0x20, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}, FormatMP4},
		{"styp", []byte{0, 0, 0, 0x18, 's', 't', 'y', 'p', 'm', 's', 'd', 'h'}, FormatMP4},
		{"bare moov", []byte{0, 0, 0x10, 0, 'm', 'o', 'o', 'v'}, FormatMP4},
		{"pack header", []byte{0x00, 0x00, 0x01, 0xBA, 0x21, 0x00}, FormatMPEGPS},
		{"sequence header", []byte{0x00, 0x00, 0x01, 0xB3, 0x14, 0x00}, FormatMPEGPS},
		{"transport stream", []byte{0x47, 0x40, 0x00, 0x10}, FormatUnknown},
		{"riff", []byte("RIFF\x00\x00\x00\x00AVI "), FormatUnknown},
		{"empty", nil, FormatUnknown},
		{"short", []byte{0x00, 0x00}, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectBytes(tt.head); got != tt.want {
				t.Errorf("DetectBytes = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte{0, 0, 0, 0x20, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}
	format, err := DetectFile(path)
	if err != nil {
		t.Fatalf("DetectFile failed: %v", err)
	}
	if format != FormatMP4 {
		t.Errorf("format = %s, want mp4", format)
	}

	// A file shorter than the probe window still detects.
	short := filepath.Join(dir, "short.mpg")
	if err := os.WriteFile(short, []byte{0x00, 0x00, 0x01, 0xBA, 0x21}, 0644); err != nil {
		t.Fatal(err)
	}
	format, err = DetectFile(short)
	if err != nil {
		t.Fatalf("DetectFile short failed: %v", err)
	}
	if format != FormatMPEGPS {
		t.Errorf("format = %s, want mpegps", format)
	}
}

func TestDetectFile_Missing(t *testing.T) {
	if _, err := DetectFile(filepath.Join(t.TempDir(), "nope.mp4")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCodecFromSampleEntry(t *testing.T) {
	tests := []struct {
		entry string
		want  media.Codec
	}{
		{"avc1", media.CodecH264},
		{"avc3", media.CodecH264},
		{"av01", media.CodecAV1},
		{"mp4a", media.CodecAAC},
		{"hvc1", media.CodecUnknown},
		{"vp09", media.CodecUnknown},
	}
	for _, tt := range tests {
		if got := CodecFromSampleEntry(tt.entry); got != tt.want {
			t.Errorf("CodecFromSampleEntry(%q) = %s, want %s", tt.entry, got, tt.want)
		}
	}
}
