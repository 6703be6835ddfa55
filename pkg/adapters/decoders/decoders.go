// Package decoders maps codec tags onto decoder backends. The mapping
// is an explicit switch over the closed codec enumeration, so adding a
// codec means deciding its backend here, and an unknown tag is an
// error rather than a silent fallthrough.
package decoders

import (
	"errors"
	"fmt"

	"github.com/user/stillcut/pkg/adapters/av1decoder"
	"github.com/user/stillcut/pkg/adapters/ffmpegdecoder"
	"github.com/user/stillcut/pkg/adapters/mpeg1decoder"
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// Backend identifies the decoding implementation behind a codec.
type Backend string

const (
	// BackendFFmpeg shells out to an ffmpeg executable.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendMPEG is the pure-Go MPEG-1 decoder.
	BackendMPEG Backend = "mpeg"
	// BackendLibaom is libaom through cgo.
	BackendLibaom Backend = "libaom"
)

// ErrUnsupportedCodec is returned when no backend can decode the
// codec.
var ErrUnsupportedCodec = errors.New("decoders: unsupported codec")

// Options configures backend construction.
type Options struct {
	// FFmpegPath optionally pins the ffmpeg executable.
	FFmpegPath string
}

// Resolve returns a decoder backend for the codec.
func Resolve(codec media.Codec, opts Options, log ports.Logger) (ports.FrameDecoder, Backend, error) {
	switch codec {
	case media.CodecH264:
		return ffmpegdecoder.New(opts.FFmpegPath, log), BackendFFmpeg, nil

	case media.CodecMPEG1:
		return mpeg1decoder.New(log), BackendMPEG, nil

	case media.CodecAV1:
		return av1decoder.New(log), BackendLibaom, nil

	case media.CodecAAC, media.CodecMP2:
		return nil, "", fmt.Errorf("%s is an audio codec: %w", codec, ErrUnsupportedCodec)

	case media.CodecUnknown:
		return nil, "", fmt.Errorf("unrecognized codec tag: %w", ErrUnsupportedCodec)

	default:
		return nil, "", fmt.Errorf("%s: %w", codec, ErrUnsupportedCodec)
	}
}
