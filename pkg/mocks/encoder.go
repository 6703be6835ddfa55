package mocks

import (
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// StillEncoder is a mock implementation of ports.StillEncoder.
type StillEncoder struct {
	EncodeFunc func(frame *media.RGBFrame) ([]byte, error)

	// Recorded calls for verification
	EncodeCalls int
}

func (m *StillEncoder) Encode(frame *media.RGBFrame) ([]byte, error) {
	m.EncodeCalls++
	if m.EncodeFunc != nil {
		return m.EncodeFunc(frame)
	}
	// Minimal PNG signature
	return []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, nil
}

var _ ports.StillEncoder = (*StillEncoder)(nil)
