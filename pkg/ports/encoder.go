package ports

import "github.com/user/stillcut/pkg/media"

// StillEncoder serializes one RGB frame into an image file format.
//
// Encode reads rows stride-respecting: row r starts at r*Stride and
// only Width*3 of its bytes are pixels, so padding never leaks into
// the output. All failures collapse into a single encode error class.
type StillEncoder interface {
	Encode(frame *media.RGBFrame) ([]byte, error)
}
