// Package pngencoder encodes packed RGB frames as PNG images.
package pngencoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// ErrEncode is the single failure class of this encoder. Every error
// it returns wraps it.
var ErrEncode = errors.New("pngencoder: encode failed")

// Encoder implements ports.StillEncoder using the standard PNG codec.
// Fully opaque input encodes as 24-bit RGB.
type Encoder struct{}

// New creates a new Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Encode renders the frame as a PNG. Rows are read at the frame's
// stride, so padded buffers encode the same pixels as tight ones.
func (e *Encoder) Encode(frame *media.RGBFrame) ([]byte, error) {
	if frame == nil || frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("%w: no dimensions", ErrEncode)
	}
	rowBytes := frame.Width * 3
	if frame.Stride < rowBytes {
		return nil, fmt.Errorf("%w: stride %d below row width %d", ErrEncode, frame.Stride, rowBytes)
	}
	if need := (frame.Height-1)*frame.Stride + rowBytes; len(frame.Pix) < need {
		return nil, fmt.Errorf("%w: pixel buffer holds %d bytes, needs %d", ErrEncode, len(frame.Pix), need)
	}

	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for row := 0; row < frame.Height; row++ {
		src := frame.Pix[row*frame.Stride : row*frame.Stride+rowBytes]
		dst := img.Pix[row*img.Stride:]
		for col := 0; col < frame.Width; col++ {
			dst[col*4] = src[col*3]
			dst[col*4+1] = src[col*3+1]
			dst[col*4+2] = src[col*3+2]
			dst[col*4+3] = 0xFF
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// Ensure Encoder implements ports.StillEncoder
var _ ports.StillEncoder = (*Encoder)(nil)
