package psreader

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/mocks"
	"github.com/user/stillcut/pkg/ports"
)

// sequenceHeaderBytes is a 320x240, 25 fps, variable-bit-rate MPEG-1
// sequence header.
var sequenceHeaderBytes = []byte{
	0x00, 0x00, 0x01, 0xB3,
	0x14, 0x00, 0xF0, // 320x240
	0x13,             // aspect 1:1, frame rate code 3 (25 fps)
	0xFF, 0xFF, 0xC0, // bit rate all-ones: variable
	0x20,
}

// pictureBytes returns a picture header of the given coding type
// (1 = I, 2 = P, 3 = B).
func pictureBytes(codingType byte) []byte {
	return []byte{0x00, 0x00, 0x01, 0x00, 0x00, codingType << 3}
}

// videoPES wraps an elementary stream chunk in an MPEG-1 PES packet
// with a PTS of 90000 (one second on the 90 kHz clock).
func videoPES(es []byte) []byte {
	pts := []byte{0x21, 0x00, 0x05, 0xBF, 0x21}
	pesLen := len(pts) + len(es)
	pkt := []byte{0x00, 0x00, 0x01, 0xE0, byte(pesLen >> 8), byte(pesLen)}
	pkt = append(pkt, pts...)
	return append(pkt, es...)
}

// audioPES wraps a payload in a PTS-less MPEG-1 PES packet.
func audioPES(payload []byte) []byte {
	pesLen := 1 + len(payload)
	pkt := []byte{0x00, 0x00, 0x01, 0xC0, byte(pesLen >> 8), byte(pesLen), 0x0F}
	return append(pkt, payload...)
}

// writeProgramStream assembles pack header, PES packets and program
// end code into a temp file.
func writeProgramStream(t *testing.T, pes ...[]byte) string {
	t.Helper()
	data := []byte{0x00, 0x00, 0x01, 0xBA, 0x21, 0x00, 0x01, 0x00, 0x01, 0x80, 0x1B, 0x91}
	for _, p := range pes {
		data = append(data, p...)
	}
	data = append(data, 0x00, 0x00, 0x01, 0xB9)

	path := filepath.Join(t.TempDir(), "clip.mpg")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen_ProgramStream(t *testing.T) {
	es := append(append([]byte(nil), sequenceHeaderBytes...), pictureBytes(1)...)
	audio := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	path := writeProgramStream(t, videoPES(es), audioPES(audio))

	r := New(mocks.NewLogger())
	info, err := r.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if info.Format != "mpegps" {
		t.Errorf("format = %s, want mpegps", info.Format)
	}
	if info.BitRate != -1 {
		t.Errorf("bit rate = %d, want -1 for a variable-rate header", info.BitRate)
	}
	// One video PTS at 1000 ms plus one 25 fps frame.
	if info.DurationMS != 40 {
		t.Errorf("duration = %d ms, want 40", info.DurationMS)
	}

	if err := r.ProbeStreams(); err != nil {
		t.Fatalf("ProbeStreams failed: %v", err)
	}

	streams := r.Streams()
	if len(streams) != 2 {
		t.Fatalf("got %d streams, want 2", len(streams))
	}

	video := streams[0]
	if video.Type != media.MediaVideo || video.Codec != media.CodecMPEG1 {
		t.Errorf("stream 0 = %s/%s, want video/mpeg1video", video.Type, video.Codec)
	}
	if video.Width != 320 || video.Height != 240 {
		t.Errorf("video size %dx%d, want 320x240", video.Width, video.Height)
	}
	if video.FrameRate != 25 {
		t.Errorf("frame rate = %v, want 25", video.FrameRate)
	}
	if video.TimeScale != 90000 {
		t.Errorf("time scale = %d, want 90000", video.TimeScale)
	}

	if streams[1].Type != media.MediaAudio || streams[1].Codec != media.CodecMP2 {
		t.Errorf("stream 1 = %s/%s, want audio/mp2", streams[1].Type, streams[1].Codec)
	}

	pkt, err := r.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket failed: %v", err)
	}
	if pkt.StreamIndex != 0 {
		t.Errorf("packet stream = %d, want 0", pkt.StreamIndex)
	}
	if pkt.PTS != 1000 {
		t.Errorf("packet pts = %d ms, want 1000", pkt.PTS)
	}
	if !pkt.Keyframe {
		t.Error("sequence-header packet not flagged as keyframe")
	}
	if !bytes.Equal(pkt.Data, es) {
		t.Errorf("payload = % X, want % X", pkt.Data, es)
	}
	pkt.Release()

	pkt, err = r.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket audio failed: %v", err)
	}
	if pkt.StreamIndex != 1 {
		t.Errorf("packet stream = %d, want 1", pkt.StreamIndex)
	}
	if pkt.PTS != -1 {
		t.Errorf("audio pts = %d, want -1", pkt.PTS)
	}
	pkt.Release()

	if _, err := r.ReadPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadPacket after last entry = %v, want io.EOF", err)
	}
}

func TestOpen_RawElementaryStream(t *testing.T) {
	data := append(append([]byte(nil), sequenceHeaderBytes...), pictureBytes(1)...)
	data = append(data, pictureBytes(2)...)

	path := filepath.Join(t.TempDir(), "clip.m1v")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	r := New(mocks.NewLogger())
	info, err := r.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if info.Format != "mpegvideo" {
		t.Errorf("format = %s, want mpegvideo", info.Format)
	}
	if err := r.ProbeStreams(); err != nil {
		t.Fatalf("ProbeStreams failed: %v", err)
	}
	if len(r.Streams()) != 1 {
		t.Fatalf("got %d streams, want 1", len(r.Streams()))
	}

	// First chunk keeps the sequence header in front of the first
	// picture; the second holds the P picture.
	first, err := r.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket failed: %v", err)
	}
	if !first.Keyframe {
		t.Error("first chunk not flagged as keyframe")
	}
	if !bytes.HasPrefix(first.Data, sequenceHeaderBytes) {
		t.Error("first chunk lost the sequence header")
	}
	first.Release()

	second, err := r.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket failed: %v", err)
	}
	if second.Keyframe {
		t.Error("P picture flagged as keyframe")
	}
	second.Release()

	if _, err := r.ReadPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadPacket after last chunk = %v, want io.EOF", err)
	}
}

func TestOpen_Unrecognized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, 32), 0644); err != nil {
		t.Fatal(err)
	}

	r := New(mocks.NewLogger())
	if _, err := r.Open(path); !errors.Is(err, ports.ErrUnrecognizedFormat) {
		t.Errorf("Open = %v, want ErrUnrecognizedFormat", err)
	}
}

func TestProbeStreams_BeforeOpen(t *testing.T) {
	r := New(mocks.NewLogger())
	if err := r.ProbeStreams(); !errors.Is(err, ports.ErrNoStreamInfo) {
		t.Errorf("ProbeStreams = %v, want ErrNoStreamInfo", err)
	}
}

func TestParsePTS(t *testing.T) {
	// 90000 ticks of the 90 kHz clock is one second.
	b := []byte{0x21, 0x00, 0x05, 0xBF, 0x21}
	if got := parsePTS(b); got != 1000 {
		t.Errorf("parsePTS = %d ms, want 1000", got)
	}
	if got := parsePTS([]byte{0x21}); got != -1 {
		t.Errorf("parsePTS short = %d, want -1", got)
	}
}

func TestParseSequenceHeader_MPEG2Detected(t *testing.T) {
	// A sequence extension right after the header marks MPEG-2 video.
	es := append(append([]byte(nil), sequenceHeaderBytes...), 0x00, 0x00, 0x01, 0xB5, 0x14)
	sh, ok := parseSequenceHeader(es)
	if !ok {
		t.Fatal("parseSequenceHeader failed")
	}
	if !sh.mpeg2 {
		t.Error("sequence extension not detected as MPEG-2")
	}

	sh, ok = parseSequenceHeader(sequenceHeaderBytes)
	if !ok {
		t.Fatal("parseSequenceHeader failed")
	}
	if sh.mpeg2 {
		t.Error("plain MPEG-1 header detected as MPEG-2")
	}
}

func TestClassifyPayload(t *testing.T) {
	keyframe, picType := classifyPayload(pictureBytes(3))
	if keyframe {
		t.Error("B picture flagged as keyframe")
	}
	if picType != media.PictureTypeB {
		t.Errorf("picture type = %c, want B", picType)
	}

	keyframe, picType = classifyPayload(pictureBytes(1))
	if !keyframe {
		t.Error("I picture not flagged as keyframe")
	}
	if picType != media.PictureTypeI {
		t.Errorf("picture type = %c, want I", picType)
	}
}
