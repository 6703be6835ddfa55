// Package mocks provides hand-written mock implementations of the
// ports interfaces for testing.
package mocks

import (
	"io"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// ContainerReader is a mock implementation of ports.ContainerReader.
// By default it serves the configured Info, StreamList and Packets in
// order, then io.EOF.
type ContainerReader struct {
	OpenFunc         func(path string) (media.ContainerInfo, error)
	ProbeStreamsFunc func() error
	ReadPacketFunc   func() (*media.Packet, error)
	CloseFunc        func() error

	Info       media.ContainerInfo
	StreamList []media.StreamInfo
	Packets    []*media.Packet

	// Recorded calls for verification
	OpenPath        string
	ProbeCalled     bool
	ReadPacketCalls int
	CloseCalled     bool

	next int
}

func (m *ContainerReader) Open(path string) (media.ContainerInfo, error) {
	m.OpenPath = path
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return m.Info, nil
}

func (m *ContainerReader) ProbeStreams() error {
	m.ProbeCalled = true
	if m.ProbeStreamsFunc != nil {
		return m.ProbeStreamsFunc()
	}
	return nil
}

func (m *ContainerReader) Streams() []media.StreamInfo {
	return m.StreamList
}

func (m *ContainerReader) ReadPacket() (*media.Packet, error) {
	m.ReadPacketCalls++
	if m.ReadPacketFunc != nil {
		return m.ReadPacketFunc()
	}
	if m.next >= len(m.Packets) {
		return nil, io.EOF
	}
	pkt := m.Packets[m.next]
	m.next++
	return pkt, nil
}

func (m *ContainerReader) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.ContainerReader = (*ContainerReader)(nil)
