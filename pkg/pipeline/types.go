package pipeline

import (
	"fmt"

	"github.com/user/stillcut/pkg/media"
)

// =============================================================================
// Common Types
// =============================================================================

// DrainPolicy selects what happens to decoder-buffered frames when the
// extraction loop stops.
type DrainPolicy string

const (
	// DrainDrop discards buffered frames, matching the classic
	// grab-and-go behavior.
	DrainDrop DrainPolicy = "drop"
	// DrainFlush signals end-of-stream to the decoder and runs the
	// remaining frames through the same decode cycle.
	DrainFlush DrainPolicy = "flush"
)

// ParseDrainPolicy converts a config string into a DrainPolicy.
func ParseDrainPolicy(s string) (DrainPolicy, error) {
	switch DrainPolicy(s) {
	case DrainDrop, DrainFlush:
		return DrainPolicy(s), nil
	case "":
		return DrainDrop, nil
	default:
		return DrainDrop, fmt.Errorf("unknown drain policy %q (want drop or flush)", s)
	}
}

// SavedFrame describes one still written by the extraction loop.
type SavedFrame struct {
	Index       int    // Receive-order frame index, 0-based
	Name        string // File name, e.g. frame-0.png
	Path        string // Full path reported by the sink
	PTSMS       int64  // Presentation timestamp in ms, -1 when unknown
	Bytes       int    // Encoded size
	PictureType byte   // 'I', 'P', 'B' or '?'
	Keyframe    bool
}

// =============================================================================
// Extract Stage Types
// =============================================================================

// ExtractInput contains parameters for still extraction.
type ExtractInput struct {
	Path    string      // Input media file
	Limit   int         // Packet budget on the chosen video stream
	Drain   DrainPolicy // Buffered-frame handling at stop
	Pattern string      // Output name pattern with one %d verb
}

// DefaultExtractInput returns ExtractInput with default values.
func DefaultExtractInput() ExtractInput {
	return ExtractInput{
		Limit:   10,
		Drain:   DrainDrop,
		Pattern: "frame-%d.png",
	}
}

// ExtractResult contains the extraction outcome.
type ExtractResult struct {
	Format       string           // Detected container format
	DurationMS   int64            // Container duration, -1 unknown
	BitRate      int64            // Container bit rate, -1 unknown
	Stream       media.StreamInfo // The chosen video stream
	PacketsRead  int              // All packets seen, any stream
	PacketsSent  int              // Chosen-stream packets decoded
	LimitHit     bool             // True when the packet budget stopped the loop
	FramesSaved  int
	BytesWritten int64
	Frames       []SavedFrame
}

// =============================================================================
// Sheet Stage Types
// =============================================================================

// SheetInput contains parameters for contact sheet composition.
type SheetInput struct {
	Frames    []SavedFrame // Stills to include, extraction order
	Columns   int          // Grid columns
	CellWidth int          // Thumbnail width in pixels
	Padding   int          // Padding around and between cells
	FontSize  float64      // Label size
	Workers   int          // Thumbnail scaling goroutines
}

// DefaultSheetInput returns SheetInput with default values.
func DefaultSheetInput() SheetInput {
	return SheetInput{
		Columns:   4,
		CellWidth: 320,
		Padding:   8,
		FontSize:  13,
		Workers:   0, // 0 means one per CPU
	}
}

// SheetResult contains the rendered contact sheet.
type SheetResult struct {
	Data  []byte // PNG bytes
	Cells int    // Number of stills on the sheet
}
