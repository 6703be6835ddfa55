// Package media defines the value types shared by container readers,
// decoders, converters and the pipeline driver: stream descriptors,
// packets, raw frames and RGB frames, plus the closed codec and pixel
// format enumerations.
package media

// MediaType classifies a stream.
type MediaType string

const (
	MediaVideo   MediaType = "video"
	MediaAudio   MediaType = "audio"
	MediaUnknown MediaType = "unknown"
)

// String returns the type tag.
func (t MediaType) String() string {
	return string(t)
}

// Codec identifies a compression format. The set is closed: anything a
// container reports that is not listed here maps to CodecUnknown, and
// consumers must handle that member explicitly.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecMPEG1   Codec = "mpeg1video"
	CodecAV1     Codec = "av1"
	CodecAAC     Codec = "aac"
	CodecMP2     Codec = "mp2"
	CodecUnknown Codec = "unknown"
)

// String returns the codec tag.
func (c Codec) String() string {
	return string(c)
}

// IsVideo reports whether the codec is one of the video members.
func (c Codec) IsVideo() bool {
	switch c {
	case CodecH264, CodecMPEG1, CodecAV1:
		return true
	}
	return false
}

// PixelFormat identifies the layout of a raw frame's planes. Closed
// enumeration; unrecognized layouts map to PixelFormatUnknown.
type PixelFormat string

const (
	PixelFormatYUV420  PixelFormat = "yuv420p"
	PixelFormatYUV422  PixelFormat = "yuv422p"
	PixelFormatYUV444  PixelFormat = "yuv444p"
	PixelFormatRGB24   PixelFormat = "rgb24"
	PixelFormatUnknown PixelFormat = "unknown"
)

// String returns the format tag.
func (f PixelFormat) String() string {
	return string(f)
}

// ContainerInfo describes an opened container. DurationMS and BitRate
// are -1 when the container does not carry them.
type ContainerInfo struct {
	Format     string
	DurationMS int64
	BitRate    int64
}

// StreamInfo describes one stream of a container. Width/Height and
// FrameRate are set for video streams, SampleRate/Channels for audio.
// Extradata carries the decoder configuration already converted to the
// decoder's input framing (Annex B parameter sets for H.264).
type StreamInfo struct {
	Index      int
	Type       MediaType
	Codec      Codec
	Width      int
	Height     int
	FrameRate  float64
	SampleRate int
	Channels   int
	TimeScale  uint32
	Extradata  []byte
}
