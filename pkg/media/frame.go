package media

// Picture type tags carried on decoded frames, diagnostic only.
const (
	PictureTypeI       byte = 'I'
	PictureTypeP       byte = 'P'
	PictureTypeB       byte = 'B'
	PictureTypeUnknown byte = '?'
)

// Plane is one component plane of a raw frame. Stride is the distance
// in bytes between the starts of consecutive rows and may exceed the
// number of meaningful bytes per row.
type Plane struct {
	Data   []byte
	Stride int
}

// Frame is a decoded raw picture. Planes follow the pixel format's
// layout: Y, Cb, Cr for the planar YUV formats, a single packed plane
// for RGB24. PTS is in milliseconds, -1 when unknown.
type Frame struct {
	Width       int
	Height      int
	Format      PixelFormat
	Planes      []Plane
	PTS         int64
	Keyframe    bool
	PictureType byte

	released bool
}

// Release returns every plane buffer to the shared pool. Safe on nil
// and idempotent.
func (f *Frame) Release() {
	if f == nil || f.released {
		return
	}
	f.released = true
	for i := range f.Planes {
		PutBuffer(f.Planes[i].Data)
		f.Planes[i].Data = nil
	}
}

// Released reports whether Release has run.
func (f *Frame) Released() bool {
	return f != nil && f.released
}

// RGBFrame is a packed 8-bit RGB picture. Row r occupies
// Pix[r*Stride : r*Stride+Width*3]; Stride may include padding.
//
// RGB frames are pooled: every acquirer must release on every exit
// path, typically via defer, or the buffer leaks out of the pool.
type RGBFrame struct {
	Width  int
	Height int
	Stride int
	Pix    []byte

	released bool
}

// NewRGBFrame allocates a pooled frame with the minimal stride.
func NewRGBFrame(width, height int) *RGBFrame {
	stride := width * 3
	return &RGBFrame{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    GetBuffer(stride * height),
	}
}

// Release returns the pixel buffer to the pool. Safe on nil and
// idempotent.
func (f *RGBFrame) Release() {
	if f == nil || f.released {
		return
	}
	f.released = true
	PutBuffer(f.Pix)
	f.Pix = nil
}

// Released reports whether Release has run.
func (f *RGBFrame) Released() bool {
	return f != nil && f.released
}
