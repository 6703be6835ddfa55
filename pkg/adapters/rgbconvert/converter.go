// Package rgbconvert converts raw decoded frames to packed RGB.
//
// The planar YUV paths use the BT.601 video-range integer math, the
// same per-sample conversion the AV1 backend's library applies on its
// own output. A frame that is not yuv420p draws a one-time warning and
// is still converted as faithfully as its layout allows; that mirrors
// the pipeline's advisory treatment of unexpected pixel formats.
package rgbconvert

import (
	"errors"
	"fmt"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// ErrInvalidFrame is returned for frames the converter cannot read:
// missing planes, undersized buffers, nonpositive dimensions.
var ErrInvalidFrame = errors.New("rgbconvert: invalid frame")

// Converter implements ports.PixelConverter.
type Converter struct {
	log    ports.Logger
	warned map[media.PixelFormat]bool
}

// New creates a converter.
func New(log ports.Logger) *Converter {
	return &Converter{
		log:    log.WithComponent("rgbconvert"),
		warned: make(map[media.PixelFormat]bool),
	}
}

// Convert produces a fresh pooled RGB frame. The caller owns it and
// must Release it on every exit path.
func (c *Converter) Convert(frame *media.Frame) (*media.RGBFrame, error) {
	if frame == nil || frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("%w: no dimensions", ErrInvalidFrame)
	}

	if frame.Format != media.PixelFormatYUV420 {
		c.warnOnce(frame.Format)
	}

	switch frame.Format {
	case media.PixelFormatYUV420:
		return c.convertYUV(frame, 1, 1)
	case media.PixelFormatYUV422:
		return c.convertYUV(frame, 1, 0)
	case media.PixelFormatYUV444:
		return c.convertYUV(frame, 0, 0)
	case media.PixelFormatRGB24:
		return c.copyRGB(frame)
	default:
		return c.convertLuma(frame)
	}
}

// warnOnce logs the unexpected-format advisory once per distinct
// format.
func (c *Converter) warnOnce(format media.PixelFormat) {
	if c.warned[format] {
		return
	}
	c.warned[format] = true
	c.log.Warn("Source pixel format is %s, not %s: generated images may not be what you expect",
		format.String(), media.PixelFormatYUV420.String())
}

// convertYUV handles the planar layouts; shiftX/shiftY encode the
// chroma subsampling.
func (c *Converter) convertYUV(f *media.Frame, shiftX, shiftY uint) (*media.RGBFrame, error) {
	if len(f.Planes) < 3 {
		return nil, fmt.Errorf("%w: %d planes for %s", ErrInvalidFrame, len(f.Planes), f.Format)
	}
	yp, up, vp := f.Planes[0], f.Planes[1], f.Planes[2]

	// The last row's last referenced byte bounds every plane access.
	if err := checkPlane(yp, f.Width, f.Height, 0, 0); err != nil {
		return nil, err
	}
	if err := checkPlane(up, f.Width, f.Height, shiftX, shiftY); err != nil {
		return nil, err
	}
	if err := checkPlane(vp, f.Width, f.Height, shiftX, shiftY); err != nil {
		return nil, err
	}

	rgb := media.NewRGBFrame(f.Width, f.Height)
	for row := 0; row < f.Height; row++ {
		yRow := row * yp.Stride
		uRow := (row >> shiftY) * up.Stride
		vRow := (row >> shiftY) * vp.Stride
		out := row * rgb.Stride

		for col := 0; col < f.Width; col++ {
			y := int(yp.Data[yRow+col])
			u := int(up.Data[uRow+(col>>shiftX)])
			v := int(vp.Data[vRow+(col>>shiftX)])

			// BT.601 video range.
			cy := y - 16
			cd := u - 128
			ce := v - 128

			idx := out + col*3
			rgb.Pix[idx] = clamp((298*cy + 409*ce + 128) >> 8)
			rgb.Pix[idx+1] = clamp((298*cy - 100*cd - 208*ce + 128) >> 8)
			rgb.Pix[idx+2] = clamp((298*cy + 516*cd + 128) >> 8)
		}
	}
	return rgb, nil
}

// copyRGB re-packs an already-RGB source, shedding any row padding.
func (c *Converter) copyRGB(f *media.Frame) (*media.RGBFrame, error) {
	if len(f.Planes) < 1 {
		return nil, fmt.Errorf("%w: no planes", ErrInvalidFrame)
	}
	p := f.Planes[0]
	rowBytes := f.Width * 3
	if p.Stride < rowBytes || len(p.Data) < (f.Height-1)*p.Stride+rowBytes {
		return nil, fmt.Errorf("%w: rgb plane too small", ErrInvalidFrame)
	}

	rgb := media.NewRGBFrame(f.Width, f.Height)
	for row := 0; row < f.Height; row++ {
		copy(rgb.Pix[row*rgb.Stride:row*rgb.Stride+rowBytes], p.Data[row*p.Stride:row*p.Stride+rowBytes])
	}
	return rgb, nil
}

// convertLuma is the degenerate path for unknown layouts: grayscale
// from whatever the first plane holds.
func (c *Converter) convertLuma(f *media.Frame) (*media.RGBFrame, error) {
	if len(f.Planes) < 1 {
		return nil, fmt.Errorf("%w: no planes", ErrInvalidFrame)
	}
	p := f.Planes[0]
	if err := checkPlane(p, f.Width, f.Height, 0, 0); err != nil {
		return nil, err
	}

	rgb := media.NewRGBFrame(f.Width, f.Height)
	for row := 0; row < f.Height; row++ {
		out := row * rgb.Stride
		src := row * p.Stride
		for col := 0; col < f.Width; col++ {
			g := p.Data[src+col]
			idx := out + col*3
			rgb.Pix[idx] = g
			rgb.Pix[idx+1] = g
			rgb.Pix[idx+2] = g
		}
	}
	return rgb, nil
}

// checkPlane verifies the plane covers every sample the loops will
// touch.
func checkPlane(p media.Plane, width, height int, shiftX, shiftY uint) error {
	w := ((width - 1) >> shiftX) + 1
	h := ((height - 1) >> shiftY) + 1
	if p.Stride < w {
		return fmt.Errorf("%w: stride %d below row width %d", ErrInvalidFrame, p.Stride, w)
	}
	if need := (h-1)*p.Stride + w; len(p.Data) < need {
		return fmt.Errorf("%w: plane holds %d bytes, needs %d", ErrInvalidFrame, len(p.Data), need)
	}
	return nil
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Ensure Converter implements ports.PixelConverter
var _ ports.PixelConverter = (*Converter)(nil)
