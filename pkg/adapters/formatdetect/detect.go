// Package formatdetect sniffs container formats and maps container
// codec tags onto the closed codec enumeration.
package formatdetect

import (
	"fmt"
	"io"
	"os"

	"github.com/user/stillcut/pkg/media"
)

// Format identifies a container layout. Closed enumeration.
type Format string

const (
	// FormatMP4 is the ISO base media file format (progressive or
	// fragmented).
	FormatMP4 Format = "mp4"
	// FormatMPEGPS is an MPEG program stream, or a bare MPEG-1 video
	// elementary stream, which the program stream reader also accepts.
	FormatMPEGPS Format = "mpegps"
	// FormatUnknown is anything else.
	FormatUnknown Format = "unknown"
)

// String returns the format tag.
func (f Format) String() string {
	return string(f)
}

// mp4 box types that may legally open a file.
var mp4LeadingBoxes = map[string]bool{
	"ftyp": true,
	"styp": true,
	"moov": true,
	"moof": true,
	"mdat": true,
	"free": true,
	"skip": true,
	"wide": true,
	"sidx": true,
}

// DetectBytes sniffs the container format from the leading bytes of a
// file. Twelve bytes are enough for every branch.
func DetectBytes(head []byte) Format {
	if len(head) >= 8 && mp4LeadingBoxes[string(head[4:8])] {
		return FormatMP4
	}
	if len(head) >= 4 && head[0] == 0x00 && head[1] == 0x00 && head[2] == 0x01 {
		switch head[3] {
		case 0xBA: // pack header: program stream
			return FormatMPEGPS
		case 0xB3: // sequence header: bare MPEG-1 video
			return FormatMPEGPS
		}
	}
	return FormatUnknown
}

// DetectFile sniffs the container format of a file on disk.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 12)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("read header: %w", err)
	}
	return DetectBytes(head[:n]), nil
}

// CodecFromSampleEntry maps an ISO BMFF sample entry type onto the
// codec enumeration. Entries without a supported decoder map to
// CodecUnknown; callers handle that member explicitly.
func CodecFromSampleEntry(entryType string) media.Codec {
	switch entryType {
	case "avc1", "avc3":
		return media.CodecH264
	case "av01":
		return media.CodecAV1
	case "mp4a":
		return media.CodecAAC
	default:
		// hvc1/hev1 and friends are detected but unsupported.
		return media.CodecUnknown
	}
}
