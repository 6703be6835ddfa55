// Package smartreader selects a container reader by sniffing the
// file's leading bytes, then delegates the whole reader contract to
// it.
package smartreader

import (
	"fmt"
	"io"

	"github.com/user/stillcut/pkg/adapters/formatdetect"
	"github.com/user/stillcut/pkg/adapters/mp4reader"
	"github.com/user/stillcut/pkg/adapters/psreader"
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// Reader implements ports.ContainerReader with format auto-detection.
type Reader struct {
	log    ports.Logger
	inner  ports.ContainerReader
	format formatdetect.Format
}

// New creates an auto-detecting container reader.
func New(log ports.Logger) *Reader {
	return &Reader{log: log}
}

// Open sniffs the format and opens the matching reader.
func (r *Reader) Open(path string) (media.ContainerInfo, error) {
	format, err := formatdetect.DetectFile(path)
	if err != nil {
		return media.ContainerInfo{}, err
	}

	switch format {
	case formatdetect.FormatMP4:
		r.inner = mp4reader.New(r.log)
	case formatdetect.FormatMPEGPS:
		r.inner = psreader.New(r.log)
	default:
		return media.ContainerInfo{}, fmt.Errorf("sniff %q: %w", path, ports.ErrUnrecognizedFormat)
	}

	r.format = format
	return r.inner.Open(path)
}

// Format returns the detected container format.
func (r *Reader) Format() formatdetect.Format {
	return r.format
}

// ProbeStreams delegates to the detected reader.
func (r *Reader) ProbeStreams() error {
	if r.inner == nil {
		return fmt.Errorf("probe before open: %w", ports.ErrNoStreamInfo)
	}
	return r.inner.ProbeStreams()
}

// Streams delegates to the detected reader.
func (r *Reader) Streams() []media.StreamInfo {
	if r.inner == nil {
		return nil
	}
	return r.inner.Streams()
}

// ReadPacket delegates to the detected reader.
func (r *Reader) ReadPacket() (*media.Packet, error) {
	if r.inner == nil {
		return nil, io.EOF
	}
	return r.inner.ReadPacket()
}

// Close delegates to the detected reader. Idempotent.
func (r *Reader) Close() error {
	if r.inner == nil {
		return nil
	}
	return r.inner.Close()
}

// Ensure Reader implements ports.ContainerReader
var _ ports.ContainerReader = (*Reader)(nil)
