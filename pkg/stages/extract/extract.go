// Package extract implements the still extraction stage: demux,
// decode, convert, encode, save.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/pipeline"
	"github.com/user/stillcut/pkg/ports"
)

// ErrNoVideoStream is returned when the container holds streams but
// none of them is video with a recognized codec. It is distinct from
// ports.ErrNoStreamInfo, which means probing found no streams at all.
var ErrNoVideoStream = errors.New("extract: no video stream in input")

// ErrNoFrames is returned when the run ends without a single decoded
// frame. A stream the decoder cannot make frames from is a failure,
// not an empty success.
var ErrNoFrames = errors.New("extract: no frames produced")

// DecoderResolver picks a decoder backend for the chosen stream.
type DecoderResolver func(stream media.StreamInfo) (ports.FrameDecoder, error)

// Stage runs the extraction loop. It is single-threaded blocking pull:
// one packet in, zero or more frames out, each frame converted,
// encoded and saved before the next packet is read.
type Stage struct {
	reader    ports.ContainerReader
	resolve   DecoderResolver
	converter ports.PixelConverter
	encoder   ports.StillEncoder
	sink      ports.FrameSink
	logger    ports.Logger
}

// NewStage creates a new extract stage.
func NewStage(
	reader ports.ContainerReader,
	resolve DecoderResolver,
	converter ports.PixelConverter,
	encoder ports.StillEncoder,
	sink ports.FrameSink,
	logger ports.Logger,
) *Stage {
	return &Stage{
		reader:    reader,
		resolve:   resolve,
		converter: converter,
		encoder:   encoder,
		sink:      sink,
		logger:    logger.WithComponent("extract"),
	}
}

// Execute opens the input, selects the first video stream and pulls
// packets through the decode cycle until end-of-input or the packet
// budget is spent.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	res := pipeline.ExtractResult{}
	if input.Pattern == "" {
		input.Pattern = DefaultPattern
	}

	info, err := s.reader.Open(input.Path)
	if err != nil {
		return res, fmt.Errorf("open container: %w", err)
	}
	defer s.reader.Close()

	res.Format = info.Format
	res.DurationMS = info.DurationMS
	res.BitRate = info.BitRate
	s.logger.Info("Container format %s, duration %d ms, bit rate %d bps", info.Format, info.DurationMS, info.BitRate)

	if err := s.reader.ProbeStreams(); err != nil {
		return res, fmt.Errorf("probe streams: %w", err)
	}

	video, ok := s.selectStream(s.reader.Streams())
	if !ok {
		return res, ErrNoVideoStream
	}
	res.Stream = video
	s.logger.Info("Selected video stream #%d (%s %dx%d)", video.Index, video.Codec, video.Width, video.Height)

	dec, err := s.resolve(video)
	if err != nil {
		return res, fmt.Errorf("resolve decoder: %w", err)
	}
	if err := dec.Configure(video); err != nil {
		return res, fmt.Errorf("configure decoder: %w", err)
	}
	if err := dec.Open(); err != nil {
		return res, fmt.Errorf("open decoder: %w", err)
	}
	defer dec.Close()

	// Streaming loop. The budget counts chosen-stream packets and is
	// checked after the packet is fully processed, so the packet that
	// crosses the limit still contributes its frames.
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		pkt, err := s.reader.ReadPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read packet: %w", err)
		}
		res.PacketsRead++

		if pkt.StreamIndex != video.Index {
			pkt.Release()
			continue
		}

		if err := s.decodeCycle(dec, pkt, input, &res); err != nil {
			return res, err
		}

		res.PacketsSent++
		if res.PacketsSent > input.Limit {
			s.logger.Info("Reached packet limit %d", input.Limit)
			res.LimitHit = true
			break
		}
	}

	if input.Drain == pipeline.DrainFlush {
		s.logger.Debug("Draining decoder")
		if err := s.decodeCycle(dec, nil, input, &res); err != nil {
			return res, err
		}
	} else if res.LimitHit {
		s.logger.Debug("Dropping in-flight frames on stop")
	}

	if res.FramesSaved == 0 {
		return res, ErrNoFrames
	}

	s.logger.Info("Wrote %d frames (%d bytes)", res.FramesSaved, res.BytesWritten)
	return res, nil
}

// DefaultPattern is the output file name pattern when none is given.
const DefaultPattern = "frame-%d.png"

// selectStream logs each stream and remembers the first video stream
// with a recognized codec. Streams the pipeline cannot handle are
// advisory: logged and skipped, never fatal.
func (s *Stage) selectStream(streams []media.StreamInfo) (media.StreamInfo, bool) {
	var chosen media.StreamInfo
	found := false
	for _, st := range streams {
		switch {
		case st.Type == media.MediaVideo && st.Codec != media.CodecUnknown:
			s.logger.Info("Stream #%d: video %s %dx%d, %.2f fps, time base 1/%d",
				st.Index, st.Codec, st.Width, st.Height, st.FrameRate, st.TimeScale)
			if !found {
				chosen = st
				found = true
			}
		case st.Type == media.MediaAudio && st.Codec != media.CodecUnknown:
			s.logger.Info("Stream #%d: audio %s, %d Hz, %d channels",
				st.Index, st.Codec, st.SampleRate, st.Channels)
		default:
			s.logger.Warn("Stream #%d: unsupported codec, skipping", st.Index)
		}
	}
	return chosen, found
}

// decodeCycle is the one decode cycle shared by the streaming loop and
// the drain path. A nil packet is the drain signal. The packet is
// released on every path.
func (s *Stage) decodeCycle(dec ports.FrameDecoder, pkt *media.Packet, input pipeline.ExtractInput, res *pipeline.ExtractResult) error {
	if pkt != nil {
		defer pkt.Release()
		s.logger.Debug("Packet stream %d pts %d", pkt.StreamIndex, pkt.PTS)
		if err := dec.Send(pkt); err != nil {
			return fmt.Errorf("send packet: %w", err)
		}
	} else {
		if err := dec.Drain(); err != nil {
			return fmt.Errorf("drain decoder: %w", err)
		}
	}

	for {
		frame, err := dec.Receive()
		if errors.Is(err, ports.ErrWouldBlock) || errors.Is(err, ports.ErrEndOfStream) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("receive frame: %w", err)
		}
		if err := s.processFrame(frame, input, res); err != nil {
			return err
		}
	}
}

// processFrame converts, encodes and saves one frame. The frame and
// its RGB conversion are released by defer so no error path leaks
// pooled buffers.
func (s *Stage) processFrame(frame *media.Frame, input pipeline.ExtractInput, res *pipeline.ExtractResult) error {
	defer frame.Release()

	idx := res.FramesSaved
	s.logger.Debug("Frame %c (%d) pts %d key_frame %t", frame.PictureType, idx, frame.PTS, frame.Keyframe)

	rgb, err := s.converter.Convert(frame)
	if err != nil {
		return fmt.Errorf("convert frame %d: %w", idx, err)
	}
	defer rgb.Release()

	data, err := s.encoder.Encode(rgb)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", idx, err)
	}

	name := fmt.Sprintf(input.Pattern, idx)
	s.logger.Info("Saving frame %d to %s", idx, name)
	path, err := s.sink.Save(name, data)
	if err != nil {
		return fmt.Errorf("save frame %d: %w", idx, err)
	}

	res.FramesSaved++
	res.BytesWritten += int64(len(data))
	res.Frames = append(res.Frames, pipeline.SavedFrame{
		Index:       idx,
		Name:        name,
		Path:        path,
		PTSMS:       frame.PTS,
		Bytes:       len(data),
		PictureType: frame.PictureType,
		Keyframe:    frame.Keyframe,
	})
	return nil
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult] = (*Stage)(nil)
