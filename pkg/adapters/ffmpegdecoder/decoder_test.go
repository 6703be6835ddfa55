package ffmpegdecoder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/mocks"
	"github.com/user/stillcut/pkg/ports"
)

// fakeFFmpeg drops a plain file in a temp dir so findFFmpeg's stat
// check passes without a real ffmpeg install.
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte{}, 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindFFmpeg_CustomPathMissing(t *testing.T) {
	_, err := findFFmpeg(filepath.Join(t.TempDir(), "missing", "ffmpeg"))
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("findFFmpeg = %v, want ErrFFmpegNotFound", err)
	}
}

func TestFindFFmpeg_CustomPathWins(t *testing.T) {
	want := fakeFFmpeg(t)
	got, err := findFFmpeg(want)
	if err != nil {
		t.Fatalf("findFFmpeg failed: %v", err)
	}
	if got != want {
		t.Errorf("findFFmpeg = %s, want %s", got, want)
	}
}

func TestConfigure_MissingDimensions(t *testing.T) {
	d := New("", mocks.NewLogger())
	if err := d.Configure(media.StreamInfo{Codec: media.CodecH264}); err == nil {
		t.Error("expected a parameter-copy error without dimensions")
	}
}

func TestLifecycle(t *testing.T) {
	d := New(fakeFFmpeg(t), mocks.NewLogger())

	if err := d.Open(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Open before Configure = %v, want ErrNotConfigured", err)
	}

	info := media.StreamInfo{
		Codec:     media.CodecH264,
		Width:     640,
		Height:    360,
		FrameRate: 30,
		Extradata: []byte{0x00, 0x00, 0x00, 0x01, 0x67},
	}
	if err := d.Configure(info); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if err := d.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := d.Receive(); !errors.Is(err, ports.ErrWouldBlock) {
		t.Errorf("Receive on empty decoder = %v, want ErrWouldBlock", err)
	}
	if err := d.Send(media.NewPacket(0, 0, nil)); err != nil {
		t.Errorf("Send of empty packet = %v", err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if err := d.Send(media.NewPacket(0, 0, []byte{0x01})); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after Close = %v, want ErrClosed", err)
	}
}

func TestSendBeforeConfigure(t *testing.T) {
	d := New("", mocks.NewLogger())
	pkt := media.NewPacket(0, 0, []byte{0x00, 0x00, 0x00, 0x01, 0x65})
	defer pkt.Release()

	if err := d.Send(pkt); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Send before Configure = %v, want ErrNotConfigured", err)
	}
}

func TestFrameSize(t *testing.T) {
	// yuv420p: full-size luma plus two quarter-size chroma planes.
	if got := frameSize(640, 360); got != 640*360*3/2 {
		t.Errorf("frameSize(640,360) = %d, want %d", got, 640*360*3/2)
	}
	// Odd dimensions round the chroma planes up.
	if got := frameSize(3, 3); got != 9+2*4 {
		t.Errorf("frameSize(3,3) = %d, want %d", got, 9+2*4)
	}
}

func TestSplitRawFrames(t *testing.T) {
	size := frameSize(4, 4)
	if got := splitRawFrames(make([]byte, size*2+size/2), 4, 4); got != 2 {
		t.Errorf("splitRawFrames = %d, want 2 (partial frames do not count)", got)
	}
	if got := splitRawFrames(nil, 4, 4); got != 0 {
		t.Errorf("splitRawFrames(nil) = %d, want 0", got)
	}
	if got := splitRawFrames(make([]byte, 100), 0, 0); got != 0 {
		t.Errorf("splitRawFrames with zero dimensions = %d, want 0", got)
	}
}
