package mocks

import (
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// PixelConverter is a mock implementation of ports.PixelConverter.
// The default behavior returns a black frame of the source dimensions.
type PixelConverter struct {
	ConvertFunc func(frame *media.Frame) (*media.RGBFrame, error)

	// Recorded calls for verification
	ConvertCalls int
}

func (m *PixelConverter) Convert(frame *media.Frame) (*media.RGBFrame, error) {
	m.ConvertCalls++
	if m.ConvertFunc != nil {
		return m.ConvertFunc(frame)
	}
	return media.NewRGBFrame(frame.Width, frame.Height), nil
}

var _ ports.PixelConverter = (*PixelConverter)(nil)
