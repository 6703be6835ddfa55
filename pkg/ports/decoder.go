package ports

import (
	"errors"

	"github.com/user/stillcut/pkg/media"
)

// Control signals of the decode protocol. They are not failures: they
// drive the pull loop's state machine.
var (
	// ErrWouldBlock means the decoder needs more input before it can
	// produce another frame.
	ErrWouldBlock = errors.New("decoder: would block")

	// ErrEndOfStream means the decoder has been drained and will never
	// produce another frame.
	ErrEndOfStream = errors.New("decoder: end of stream")
)

// FrameDecoder is a stateful video decoder.
//
// Lifecycle: Configure (copies the stream's codec parameters), Open,
// then alternating Send and Receive. One packet may yield zero, one or
// several frames, so after every Send the caller drains Receive until
// ErrWouldBlock. Drain enters the flush state: Send is no longer
// allowed and Receive returns buffered frames until ErrEndOfStream.
// Any other error from Send or Receive is fatal. Close is idempotent.
type FrameDecoder interface {
	// Configure copies codec parameters from the stream descriptor.
	Configure(info media.StreamInfo) error

	// Open readies the decoder for packets.
	Open() error

	// Send feeds one compressed packet.
	Send(pkt *media.Packet) error

	// Receive returns the next decoded frame, ErrWouldBlock, or
	// ErrEndOfStream. The caller owns the frame and must Release it.
	Receive() (*media.Frame, error)

	// Drain signals that no more packets will arrive.
	Drain() error

	// Close releases codec resources.
	Close() error
}
