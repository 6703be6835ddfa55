package decoders

import (
	"errors"
	"testing"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/mocks"
)

func TestResolve_VideoCodecs(t *testing.T) {
	tests := []struct {
		codec media.Codec
		want  Backend
	}{
		{media.CodecH264, BackendFFmpeg},
		{media.CodecMPEG1, BackendMPEG},
		{media.CodecAV1, BackendLibaom},
	}
	for _, tt := range tests {
		dec, backend, err := Resolve(tt.codec, Options{}, mocks.NewLogger())
		if err != nil {
			t.Errorf("Resolve(%s) failed: %v", tt.codec, err)
			continue
		}
		if dec == nil {
			t.Errorf("Resolve(%s) returned no decoder", tt.codec)
		}
		if backend != tt.want {
			t.Errorf("Resolve(%s) backend = %s, want %s", tt.codec, backend, tt.want)
		}
	}
}

func TestResolve_AudioCodecs(t *testing.T) {
	for _, codec := range []media.Codec{media.CodecAAC, media.CodecMP2} {
		if _, _, err := Resolve(codec, Options{}, mocks.NewLogger()); !errors.Is(err, ErrUnsupportedCodec) {
			t.Errorf("Resolve(%s) = %v, want ErrUnsupportedCodec", codec, err)
		}
	}
}

func TestResolve_Unknown(t *testing.T) {
	if _, _, err := Resolve(media.CodecUnknown, Options{}, mocks.NewLogger()); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("Resolve(unknown) = %v, want ErrUnsupportedCodec", err)
	}
	if _, _, err := Resolve(media.Codec("vp9"), Options{}, mocks.NewLogger()); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("Resolve(vp9) = %v, want ErrUnsupportedCodec", err)
	}
}
