package ports

import (
	"errors"

	"github.com/user/stillcut/pkg/media"
)

// Container error classes. Open failures on missing files wrap
// os.ErrNotExist, so the not-found case stays distinguishable from an
// unrecognized byte stream.
var (
	// ErrUnrecognizedFormat means the file opened but its bytes do not
	// parse as a supported container.
	ErrUnrecognizedFormat = errors.New("container: unrecognized format")

	// ErrNoStreamInfo means the container parsed but carries no usable
	// stream tables.
	ErrNoStreamInfo = errors.New("container: no stream information")
)

// ContainerReader demultiplexes a media file into streams and packets.
//
// Lifecycle: Open, ProbeStreams, then ReadPacket until io.EOF, then
// Close. Streams is valid after a successful probe. ReadPacket returns
// packets of every stream interleaved in timestamp order; callers
// filter by StreamIndex and must Release each packet.
type ContainerReader interface {
	// Open parses the file's layout and returns container-level
	// metadata.
	Open(path string) (media.ContainerInfo, error)

	// ProbeStreams builds the stream descriptors.
	ProbeStreams() error

	// Streams returns the descriptors built by ProbeStreams.
	Streams() []media.StreamInfo

	// ReadPacket returns the next packet, or io.EOF at end of input.
	ReadPacket() (*media.Packet, error)

	// Close releases the underlying file. Idempotent.
	Close() error
}
