package ports

import "github.com/user/stillcut/pkg/media"

// PixelConverter turns a raw planar frame into packed RGB.
//
// Convert allocates a fresh destination per call; the caller owns the
// result and must Release it on every exit path. A source pixel format
// other than the expected planar YUV is an advisory, not an error: the
// converter warns and produces its best rendition.
type PixelConverter interface {
	Convert(frame *media.Frame) (*media.RGBFrame, error)
}
