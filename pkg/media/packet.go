package media

import "sync"

// bufPool recycles payload and plane buffers between loop iterations.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 4096)
		return &b
	},
}

// GetBuffer returns a zeroed-length-n byte slice from the shared pool.
// Buffers handed to Packet or Frame values are returned to the pool by
// their Release methods; any other buffer must go back via PutBuffer.
func GetBuffer(n int) []byte {
	p := bufPool.Get().(*[]byte)
	b := *p
	if cap(b) < n {
		b = make([]byte, n)
	}
	return b[:n]
}

// PutBuffer returns a buffer to the shared pool.
func PutBuffer(b []byte) {
	if cap(b) == 0 {
		return
	}
	b = b[:0]
	bufPool.Put(&b)
}

// Packet is one demuxed unit of compressed data. PTS is in
// milliseconds, -1 when the container did not carry one.
//
// Packets must be released exactly once after use; Release returns the
// payload buffer to the shared pool, so holding Data past Release is a
// bug.
type Packet struct {
	StreamIndex int
	PTS         int64
	DurationMS  int64
	Keyframe    bool
	Data        []byte

	released bool
}

// NewPacket wraps a payload in a Packet. Payloads built on GetBuffer
// are recycled by Release.
func NewPacket(streamIndex int, pts int64, data []byte) *Packet {
	return &Packet{StreamIndex: streamIndex, PTS: pts, Data: data}
}

// Release returns the payload buffer to the pool. Safe on nil and
// idempotent.
func (p *Packet) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	PutBuffer(p.Data)
	p.Data = nil
}

// Released reports whether Release has run.
func (p *Packet) Released() bool {
	return p != nil && p.released
}
