// Package mpeg1decoder decodes MPEG-1 video elementary streams in
// pure Go via gen2brain/mpeg.
//
// The library decodes from the front of a stream, so the decoder
// accumulates the elementary stream and re-decodes it on every Send,
// queueing only the frames beyond those already emitted. Re-decoding
// is quadratic in the packet count, which stays trivial for a pipeline
// that stops after a dozen packets, and it keeps Receive sequences
// identical run to run.
package mpeg1decoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/mpeg"
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

var (
	// ErrNotConfigured is returned when the lifecycle is violated.
	ErrNotConfigured = errors.New("mpeg1decoder: decoder not configured")
	// ErrClosed is returned on use after Close.
	ErrClosed = errors.New("mpeg1decoder: decoder closed")
	// ErrSendAfterDrain is returned when a packet arrives in the
	// draining state.
	ErrSendAfterDrain = errors.New("mpeg1decoder: send after drain")
	// ErrNotDecodable is returned when draining a stream that never
	// produced a sequence header or a single frame.
	ErrNotDecodable = errors.New("mpeg1decoder: stream not decodable")
)

// pictureStartCode marks the beginning of a coded picture in an MPEG-1
// video elementary stream.
var pictureStartCode = []byte{0x00, 0x00, 0x01, 0x00}

type state int

const (
	stateAllocated state = iota
	stateConfigured
	stateOpen
	stateDraining
	stateClosed
)

// Decoder implements ports.FrameDecoder for MPEG-1 video.
type Decoder struct {
	log ports.Logger

	state   state
	es      []byte
	emitted int
	queue   []*media.Frame
}

// New creates an MPEG-1 decoder.
func New(log ports.Logger) *Decoder {
	return &Decoder{log: log.WithComponent("mpeg1decoder")}
}

// Configure accepts the stream descriptor. MPEG-1 video carries its
// own sequence header, so no parameters are required up front.
func (d *Decoder) Configure(info media.StreamInfo) error {
	if d.state == stateClosed {
		return ErrClosed
	}
	d.state = stateConfigured
	return nil
}

// Open readies the decoder.
func (d *Decoder) Open() error {
	if d.state != stateConfigured {
		return ErrNotConfigured
	}
	d.state = stateOpen
	d.log.Debug("Decoding with %s backend", "mpeg")
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

// Drain enters the flush state and decodes the accumulated stream one
// last time, strictly.
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

// decode re-runs the library over the accumulated elementary stream.
// While streaming, the pass is cut at the last picture start code so a
// picture split across packets is never decoded from a truncated tail,
// and the pass's final emission is held back: it may be the library's
// end-of-buffer flush of a pending reference picture, which a longer
// stream would emit later. Drain decodes everything and commits it.
func (d *Decoder) decode(strict bool) error {
	es := d.es
	if !strict {
		cut := bytes.LastIndex(es, pictureStartCode)
		if cut <= 0 {
			return nil
		}
		es = es[:cut]
	}
	if len(es) == 0 {
		return nil
	}

	buf, err := mpeg.NewBuffer(bytes.NewReader(es))
	if err != nil {
		return fmt.Errorf("decode stream: %w", err)
	}
	buf.SetLoadCallback(buf.LoadReaderCallback)

	vid := mpeg.NewVideo(buf)
	if !vid.HasHeader() {
		if strict && d.emitted == 0 {
			return fmt.Errorf("decode stream: %w", ErrNotDecodable)
		}
		return nil
	}

	count := 0
	var fresh []*media.Frame
	for {
		frame := vid.Decode()
		if frame == nil {
			break
		}
		if count >= d.emitted {
			fresh = append(fresh, copyFrame(frame, count == 0))
		}
		count++
	}
	if !strict && len(fresh) > 0 {
		fresh[len(fresh)-1].Release()
		fresh = fresh[:len(fresh)-1]
	}
	d.queue = append(d.queue, fresh...)
	d.emitted += len(fresh)

	if strict && d.emitted == 0 {
		return fmt.Errorf("decode stream: %w", ErrNotDecodable)
	}
	return nil
}

// copyFrame deep-copies the library's frame: its plane buffers are
// reused by the next Decode call.
func copyFrame(frame *mpeg.Frame, first bool) *media.Frame {
	img := frame.YCbCr()
	bounds := img.Rect
	w, h := bounds.Dx(), bounds.Dy()

	format := media.PixelFormatUnknown
	cw, ch := w, h
	switch img.SubsampleRatio {
	case image.YCbCrSubsampleRatio420:
		format = media.PixelFormatYUV420
		cw, ch = (w+1)/2, (h+1)/2
	case image.YCbCrSubsampleRatio422:
		format = media.PixelFormatYUV422
		cw = (w + 1) / 2
	case image.YCbCrSubsampleRatio444:
		format = media.PixelFormatYUV444
	}

	y := media.GetBuffer(w * h)
	copyPlane(y, img.Y, img.YStride, w, h)
	cb := media.GetBuffer(cw * ch)
	copyPlane(cb, img.Cb, img.CStride, cw, ch)
	cr := media.GetBuffer(cw * ch)
	copyPlane(cr, img.Cr, img.CStride, cw, ch)

	return &media.Frame{
		Width:  w,
		Height: h,
		Format: format,
		Planes: []media.Plane{
			{Data: y, Stride: w},
			{Data: cb, Stride: cw},
			{Data: cr, Stride: cw},
		},
		PTS:         int64(frame.Time * 1000),
		Keyframe:    first,
		PictureType: media.PictureTypeUnknown,
	}
}

// copyPlane compacts a strided plane into a tight one.
func copyPlane(dst, src []byte, srcStride, width, height int) {
	for row := 0; row < height; row++ {
		start := row * srcStride
		if start+width > len(src) {
			break
		}
		copy(dst[row*width:(row+1)*width], src[start:start+width])
	}
}

// Ensure Decoder implements ports.FrameDecoder
var _ ports.FrameDecoder = (*Decoder)(nil)
