package mocks

import (
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// FrameDecoder is a mock implementation of ports.FrameDecoder.
//
// The default behavior scripts the decode protocol over the Frames
// slice: every Send unlocks the next frame, Receive pops unlocked
// frames and returns ErrWouldBlock when it catches up, Drain unlocks
// the remainder and switches Receive's empty answer to ErrEndOfStream.
type FrameDecoder struct {
	ConfigureFunc func(info media.StreamInfo) error
	OpenFunc      func() error
	SendFunc      func(pkt *media.Packet) error
	ReceiveFunc   func() (*media.Frame, error)
	DrainFunc     func() error
	CloseFunc     func() error

	// Frames scripted for the default behavior.
	Frames []*media.Frame

	// Recorded calls for verification
	ConfiguredInfo *media.StreamInfo
	OpenCalled     bool
	SendCount      int
	SentPTS        []int64
	DrainCalled    bool
	CloseCalled    bool

	next     int
	unlocked int
	drained  bool
}

func (m *FrameDecoder) Configure(info media.StreamInfo) error {
	m.ConfiguredInfo = &info
	if m.ConfigureFunc != nil {
		return m.ConfigureFunc(info)
	}
	return nil
}

func (m *FrameDecoder) Open() error {
	m.OpenCalled = true
	if m.OpenFunc != nil {
		return m.OpenFunc()
	}
	return nil
}

func (m *FrameDecoder) Send(pkt *media.Packet) error {
	m.SendCount++
	if pkt != nil {
		m.SentPTS = append(m.SentPTS, pkt.PTS)
	}
	if m.SendFunc != nil {
		return m.SendFunc(pkt)
	}
	if m.unlocked < len(m.Frames) {
		m.unlocked++
	}
	return nil
}

func (m *FrameDecoder) Receive() (*media.Frame, error) {
	if m.ReceiveFunc != nil {
		return m.ReceiveFunc()
	}
	limit := m.unlocked
	if m.drained {
		limit = len(m.Frames)
	}
	if m.next < limit {
		f := m.Frames[m.next]
		m.next++
		return f, nil
	}
	if m.drained {
		return nil, ports.ErrEndOfStream
	}
	return nil, ports.ErrWouldBlock
}

func (m *FrameDecoder) Drain() error {
	m.DrainCalled = true
	if m.DrainFunc != nil {
		return m.DrainFunc()
	}
	m.drained = true
	return nil
}

func (m *FrameDecoder) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.FrameDecoder = (*FrameDecoder)(nil)
