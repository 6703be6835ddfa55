// Package av1decoder decodes AV1 through libaom. The aom API is
// already shaped like the decode protocol: aom_codec_decode feeds one
// packet, aom_codec_get_frame iterates the frames it unlocked.
package av1decoder

/*
#cgo pkg-config: aom
#include <aom/aom_decoder.h>
#include <aom/aomdx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_iface_t* get_av1_decoder_interface() {
    return aom_codec_av1_dx();
}

static aom_codec_err_t init_decoder(aom_codec_ctx_t *ctx, aom_codec_iface_t *iface) {
    return aom_codec_dec_init(ctx, iface, NULL, 0);
}

static unsigned char* get_plane(aom_image_t *img, int plane) {
    return img->planes[plane];
}

static int get_stride(aom_image_t *img, int plane) {
    return img->stride[plane];
}

static unsigned int get_width(aom_image_t *img) {
    return img->d_w;
}

static unsigned int get_height(aom_image_t *img) {
    return img->d_h;
}

static int get_fmt(aom_image_t *img) {
    return (int)img->fmt;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

var (
	// ErrNotConfigured is returned when the lifecycle is violated.
	ErrNotConfigured = errors.New("av1decoder: decoder not configured")
	// ErrClosed is returned on use after Close.
	ErrClosed = errors.New("av1decoder: decoder closed")
	// ErrSendAfterDrain is returned when a packet arrives in the
	// draining state.
	ErrSendAfterDrain = errors.New("av1decoder: send after drain")
)

type state int

const (
	stateAllocated state = iota
	stateConfigured
	stateOpen
	stateDraining
	stateClosed
)

// packetMeta rides alongside libaom's internal frame queue so emitted
// frames can carry their packet's timestamp and keyframe flag.
type packetMeta struct {
	pts      int64
	keyframe bool
}

// Decoder implements ports.FrameDecoder for AV1.
type Decoder struct {
	log   ports.Logger
	codec *C.aom_codec_ctx_t

	state state
	queue []*media.Frame
	metas []packetMeta
}

// New creates an AV1 decoder.
func New(log ports.Logger) *Decoder {
	return &Decoder{log: log.WithComponent("av1decoder")}
}

// Configure accepts the stream descriptor. AV1 OBUs carry their own
// sequence header, so nothing needs copying up front.
func (d *Decoder) Configure(info media.StreamInfo) error {
	if d.state == stateClosed {
		return ErrClosed
	}
	d.state = stateConfigured
	return nil
}

// Open allocates and initializes the libaom context.
func (d *Decoder) Open() error {
	if d.state != stateConfigured {
		return ErrNotConfigured
	}

	d.codec = (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	if d.codec == nil {
		return fmt.Errorf("open decoder: allocate context")
	}
	C.memset(unsafe.Pointer(d.codec), 0, C.sizeof_aom_codec_ctx_t)

	iface := C.get_av1_decoder_interface()
	if res := C.init_decoder(d.codec, iface); res != C.AOM_CODEC_OK {
		C.free(unsafe.Pointer(d.codec))
		d.codec = nil
		return fmt.Errorf("open decoder: initialize: %d", res)
	}

	d.state = stateOpen
	d.log.Debug("Decoding with %s backend", "libaom")
	return nil
}

// Send feeds one packet of OBUs and queues whatever frames it
// unlocked.
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

	res := C.aom_codec_decode(
		d.codec,
		(*C.uint8_t)(unsafe.Pointer(&pkt.Data[0])),
		C.size_t(len(pkt.Data)),
		nil,
	)
	if res != C.AOM_CODEC_OK {
		return fmt.Errorf("decode packet: %d", res)
	}

	d.metas = append(d.metas, packetMeta{pts: pkt.PTS, keyframe: pkt.Keyframe})
	d.collect()
	return nil
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

// Drain flushes libaom's internal buffer.
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

	// A null packet tells libaom no more data is coming.
	if res := C.aom_codec_decode(d.codec, nil, 0, nil); res != C.AOM_CODEC_OK {
		return fmt.Errorf("flush decoder: %d", res)
	}
	d.collect()
	return nil
}

// Close destroys the libaom context and releases queued frames.
// Idempotent.
func (d *Decoder) Close() error {
	if d.state == stateClosed {
		return nil
	}
	if d.codec != nil {
		C.aom_codec_destroy(d.codec)
		C.free(unsafe.Pointer(d.codec))
		d.codec = nil
	}
	for _, f := range d.queue {
		f.Release()
	}
	d.queue = nil
	d.state = stateClosed
	return nil
}

// collect drains libaom's frame iterator into the queue.
func (d *Decoder) collect() {
	var iter C.aom_codec_iter_t
	for {
		img := C.aom_codec_get_frame(d.codec, &iter)
		if img == nil {
			return
		}

		meta := packetMeta{pts: -1}
		if len(d.metas) > 0 {
			meta = d.metas[0]
			d.metas = d.metas[1:]
		}
		d.queue = append(d.queue, copyImage(img, meta))
	}
}

// copyImage snapshots an aom image into pooled planes; the aom buffer
// is only valid until the next decode call.
func copyImage(img *C.aom_image_t, meta packetMeta) *media.Frame {
	width := int(C.get_width(img))
	height := int(C.get_height(img))

	format := media.PixelFormatUnknown
	cw, ch := width, height
	switch C.get_fmt(img) {
	case C.AOM_IMG_FMT_I420:
		format = media.PixelFormatYUV420
		cw, ch = (width+1)/2, (height+1)/2
	case C.AOM_IMG_FMT_I422:
		format = media.PixelFormatYUV422
		cw = (width + 1) / 2
	case C.AOM_IMG_FMT_I444:
		format = media.PixelFormatYUV444
	}

	planes := []media.Plane{
		copyAomPlane(img, 0, width, height),
		copyAomPlane(img, 1, cw, ch),
		copyAomPlane(img, 2, cw, ch),
	}

	picType := media.PictureTypeUnknown
	if meta.keyframe {
		picType = media.PictureTypeI
	}

	return &media.Frame{
		Width:       width,
		Height:      height,
		Format:      format,
		Planes:      planes,
		PTS:         meta.pts,
		Keyframe:    meta.keyframe,
		PictureType: picType,
	}
}

// copyAomPlane compacts one strided aom plane into a tight pooled
// buffer.
func copyAomPlane(img *C.aom_image_t, plane, width, height int) media.Plane {
	src := C.get_plane(img, C.int(plane))
	stride := int(C.get_stride(img, C.int(plane)))

	buf := media.GetBuffer(width * height)
	for row := 0; row < height; row++ {
		rowPtr := unsafe.Pointer(uintptr(unsafe.Pointer(src)) + uintptr(row*stride))
		copy(buf[row*width:(row+1)*width], C.GoBytes(rowPtr, C.int(width)))
	}
	return media.Plane{Data: buf, Stride: width}
}

// Ensure Decoder implements ports.FrameDecoder
var _ ports.FrameDecoder = (*Decoder)(nil)
