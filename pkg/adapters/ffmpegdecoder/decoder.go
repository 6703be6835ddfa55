// Package ffmpegdecoder decodes H.264 elementary streams through an
// external ffmpeg executable.
//
// ffmpeg has no incremental stdio protocol that stays deterministic
// across runs, so the decoder accumulates the Annex B stream and
// re-decodes the whole of it on every Send, emitting only the frames
// beyond those already handed out. Receive order is ffmpeg's
// presentation order, which only ever extends as more input arrives,
// so repeated runs over the same file produce identical sequences.
package ffmpegdecoder

import (
	"errors"
	"fmt"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

var (
	// ErrFFmpegNotFound is returned when no ffmpeg executable can be
	// located.
	ErrFFmpegNotFound = errors.New("ffmpegdecoder: ffmpeg executable not found")
	// ErrNotConfigured is returned when the lifecycle is violated.
	ErrNotConfigured = errors.New("ffmpegdecoder: decoder not configured")
	// ErrClosed is returned on use after Close.
	ErrClosed = errors.New("ffmpegdecoder: decoder closed")
	// ErrSendAfterDrain is returned when a packet arrives in the
	// draining state.
	ErrSendAfterDrain = errors.New("ffmpegdecoder: send after drain")
)

type state int

const (
	stateAllocated state = iota
	stateConfigured
	stateOpen
	stateDraining
	stateClosed
)

// Decoder implements ports.FrameDecoder for H.264.
type Decoder struct {
	log        ports.Logger
	customPath string

	state      state
	ffmpegPath string
	width      int
	height     int
	frameRate  float64
	extradata  []byte

	es      []byte
	emitted int
	queue   []*media.Frame
}

// New creates an H.264 decoder. customPath optionally pins the ffmpeg
// executable.
func New(customPath string, log ports.Logger) *Decoder {
	return &Decoder{
		log:        log.WithComponent("ffmpegdecoder"),
		customPath: customPath,
	}
}

// Configure copies codec parameters from the stream descriptor.
func (d *Decoder) Configure(info media.StreamInfo) error {
	if d.state == stateClosed {
		return ErrClosed
	}
	if info.Width <= 0 || info.Height <= 0 {
		return fmt.Errorf("copy parameters: missing dimensions %dx%d", info.Width, info.Height)
	}
	d.width = info.Width
	d.height = info.Height
	d.frameRate = info.FrameRate
	d.extradata = append([]byte(nil), info.Extradata...)
	d.state = stateConfigured
	return nil
}

// Open locates ffmpeg and seeds the stream with the parameter sets.
// Repeated parameter sets in Annex B are harmless.
func (d *Decoder) Open() error {
	if d.state != stateConfigured {
		return ErrNotConfigured
	}
	path, err := findFFmpeg(d.customPath)
	if err != nil {
		return fmt.Errorf("open decoder: %w", err)
	}
	d.ffmpegPath = path
	d.es = append(d.es[:0], d.extradata...)
	d.state = stateOpen
	d.log.Debug("Decoding with %s backend", "ffmpeg")
	return nil
}

// Send appends one packet to the stream and re-decodes.
func (d *Decoder) Send(pkt *media.Packet) error {
	switch d.state {
	case stateOpen:
	case stateDraining:
		return ErrSendAfterDrain
	case stateClosed:
		return ErrClosed
	default:
		return ErrNotConfigured
	}
	if pkt == nil || len(pkt.Data) == 0 {
		return nil
	}

	d.es = append(d.es, pkt.Data...)
	return d.decode(false)
}

// Receive returns the next decoded frame, ErrWouldBlock while more
// input could still produce one, or ErrEndOfStream after draining.
func (d *Decoder) Receive() (*media.Frame, error) {
	if d.state == stateClosed {
		return nil, ErrClosed
	}
	if len(d.queue) > 0 {
		f := d.queue[0]
		d.queue = d.queue[1:]
		return f, nil
	}
	if d.state == stateDraining {
		return nil, ports.ErrEndOfStream
	}
	return nil, ports.ErrWouldBlock
}

// Drain enters the flush state. The accumulated stream is decoded one
// last time, strictly: a stream that never produced a frame surfaces
// its ffmpeg error here.
func (d *Decoder) Drain() error {
	switch d.state {
	case stateClosed:
		return ErrClosed
	case stateDraining:
		return nil
	case stateOpen:
	default:
		return ErrNotConfigured
	}
	d.state = stateDraining
	return d.decode(true)
}

// Close releases buffers and any frames never handed out. Idempotent.
func (d *Decoder) Close() error {
	if d.state == stateClosed {
		return nil
	}
	for _, f := range d.queue {
		f.Release()
	}
	d.queue = nil
	d.es = nil
	d.state = stateClosed
	return nil
}

// decode re-runs ffmpeg over the accumulated stream and queues frames
// beyond those already emitted. In non-strict mode a run that yields
// nothing is the would-block case, not a failure: partial streams are
// routinely undecodable.
func (d *Decoder) decode(strict bool) error {
	raw, err := runFFmpeg(d.ffmpegPath, d.es)

	frames := splitRawFrames(raw, d.width, d.height)
	if err != nil && strict && frames == 0 && d.emitted == 0 {
		return err
	}

	fresh := 0
	for i := d.emitted; i < frames; i++ {
		d.queue = append(d.queue, d.frameAt(raw, i))
		fresh++
	}
	d.emitted += fresh
	if fresh > 0 {
		d.log.Debug("ffmpeg produced %d new frames", fresh)
	}
	return nil
}

// frameSize returns the byte size of one yuv420p frame.
func frameSize(width, height int) int {
	cw, ch := (width+1)/2, (height+1)/2
	return width*height + 2*cw*ch
}

// splitRawFrames counts whole frames in a rawvideo buffer.
func splitRawFrames(raw []byte, width, height int) int {
	size := frameSize(width, height)
	if size <= 0 {
		return 0
	}
	return len(raw) / size
}

// frameAt copies frame index out of the rawvideo buffer into pooled
// planes.
func (d *Decoder) frameAt(raw []byte, index int) *media.Frame {
	w, h := d.width, d.height
	cw, ch := (w+1)/2, (h+1)/2
	base := index * frameSize(w, h)

	y := media.GetBuffer(w * h)
	copy(y, raw[base:base+w*h])
	u := media.GetBuffer(cw * ch)
	copy(u, raw[base+w*h:base+w*h+cw*ch])
	v := media.GetBuffer(cw * ch)
	copy(v, raw[base+w*h+cw*ch:base+w*h+2*cw*ch])

	pts := int64(-1)
	if d.frameRate > 0 {
		pts = int64(float64(index) * 1000.0 / d.frameRate)
	}

	return &media.Frame{
		Width:  w,
		Height: h,
		Format: media.PixelFormatYUV420,
		Planes: []media.Plane{
			{Data: y, Stride: w},
			{Data: u, Stride: cw},
			{Data: v, Stride: cw},
		},
		PTS:         pts,
		Keyframe:    index == 0,
		PictureType: media.PictureTypeUnknown,
	}
}

// Ensure Decoder implements ports.FrameDecoder
var _ ports.FrameDecoder = (*Decoder)(nil)
