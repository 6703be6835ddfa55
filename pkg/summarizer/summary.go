// Package summarizer provides summary generation for extraction results.
package summarizer

import "time"

// Summary contains all data collected during an extraction run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input file information
	Input InputInfo

	// Chosen video stream
	Stream StreamInfo

	// Extraction loop results
	Extraction ExtractionInfo

	// Output details
	Output OutputInfo
}

// InputInfo describes the source media file.
type InputInfo struct {
	Path       string
	Format     string
	DurationMS int64 // -1 when the container does not carry one
	BitRate    int64 // bits/sec, -1 when unknown
}

// StreamInfo describes the video stream the frames came from.
type StreamInfo struct {
	Index     int
	Codec     string
	Width     int
	Height    int
	FrameRate float64
	Backend   string // decoder backend name
}

// ExtractionInfo contains the extraction loop counters.
type ExtractionInfo struct {
	Limit       int
	PacketsRead int
	PacketsSent int
	LimitHit    bool
	Drain       string
	ElapsedMS   int64
}

// OutputInfo describes what was written where.
type OutputInfo struct {
	Directory  string
	FrameCount int
	TotalBytes int64
	SheetPath  string // empty when no contact sheet was rendered
	Frames     []FrameInfo
}

// FrameInfo is one saved still.
type FrameInfo struct {
	Index int
	Name  string
	PTSMS int64  // -1 when unknown
	Type  string // picture type: I, P, B or ?
	Bytes int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets source file information.
func (b *Builder) WithInput(path, format string, durationMS, bitRate int64) *Builder {
	b.summary.Input = InputInfo{
		Path:       path,
		Format:     format,
		DurationMS: durationMS,
		BitRate:    bitRate,
	}
	return b
}

// WithStream sets the chosen video stream.
func (b *Builder) WithStream(stream StreamInfo) *Builder {
	b.summary.Stream = stream
	return b
}

// WithExtraction sets the extraction loop counters.
func (b *Builder) WithExtraction(extraction ExtractionInfo) *Builder {
	b.summary.Extraction = extraction
	return b
}

// WithOutput sets the output directory and size.
func (b *Builder) WithOutput(directory string, totalBytes int64) *Builder {
	b.summary.Output.Directory = directory
	b.summary.Output.TotalBytes = totalBytes
	return b
}

// WithFrames sets the per-frame records.
func (b *Builder) WithFrames(frames []FrameInfo) *Builder {
	b.summary.Output.Frames = frames
	b.summary.Output.FrameCount = len(frames)
	return b
}

// WithSheet sets the contact sheet path.
func (b *Builder) WithSheet(path string) *Builder {
	b.summary.Output.SheetPath = path
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
