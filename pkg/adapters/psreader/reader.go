// Package psreader reads MPEG program streams and bare MPEG-1 video
// elementary streams. The scanner indexes every PES payload up front
// (offsets only); packet payloads are read lazily from the file, so
// memory stays flat no matter how long the input runs.
package psreader

import (
	"fmt"
	"io"
	"os"

	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// Reader implements ports.ContainerReader for MPEG program streams.
type Reader struct {
	log ports.Logger

	file    *os.File
	info    media.ContainerInfo
	streams []media.StreamInfo
	entries []indexEntry
	pos     int
	probed  bool
}

// indexEntry locates one packet payload in the file.
type indexEntry struct {
	stream   int
	offset   int64
	length   int
	ptsMS    int64
	keyframe bool
}

// New creates a program stream reader.
func New(log ports.Logger) *Reader {
	return &Reader{log: log.WithComponent("psreader")}
}

// Open scans the file and builds the packet index. Program streams
// carry their metadata inline, so the scan doubles as the probe's
// groundwork.
func (r *Reader) Open(path string) (media.ContainerInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return media.ContainerInfo{}, fmt.Errorf("open file: %w", err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		f.Close()
		return media.ContainerInfo{}, fmt.Errorf("read file: %w", err)
	}

	r.info = media.ContainerInfo{Format: "mpegps", DurationMS: -1, BitRate: -1}

	switch {
	case len(data) >= 4 && data[0] == 0 && data[1] == 0 && data[2] == 1 && data[3] == codePackHeader:
		r.scanProgram(data)
	case len(data) >= 4 && data[0] == 0 && data[1] == 0 && data[2] == 1 && data[3] == codeSequence:
		r.info.Format = "mpegvideo"
		r.scanRawES(data)
	default:
		f.Close()
		return media.ContainerInfo{}, fmt.Errorf("scan %q: %w", path, ports.ErrUnrecognizedFormat)
	}

	r.file = f
	r.log.Debug("Indexed %d packets across %d streams", len(r.entries), len(r.streams))
	return r.info, nil
}

// ProbeStreams validates that the scan found usable streams.
func (r *Reader) ProbeStreams() error {
	if r.file == nil {
		return fmt.Errorf("probe before open: %w", ports.ErrNoStreamInfo)
	}
	if len(r.streams) == 0 {
		return fmt.Errorf("no elementary streams: %w", ports.ErrNoStreamInfo)
	}
	r.probed = true
	return nil
}

// Streams returns the descriptors built by the scan.
func (r *Reader) Streams() []media.StreamInfo {
	return r.streams
}

// ReadPacket reads the next indexed payload from the file.
func (r *Reader) ReadPacket() (*media.Packet, error) {
	if !r.probed {
		return nil, fmt.Errorf("read before probe: %w", ports.ErrNoStreamInfo)
	}
	if r.pos >= len(r.entries) {
		return nil, io.EOF
	}
	e := r.entries[r.pos]
	r.pos++

	if _, err := r.file.Seek(e.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to payload: %w", err)
	}
	buf := media.GetBuffer(e.length)
	if _, err := io.ReadFull(r.file, buf); err != nil {
		media.PutBuffer(buf)
		return nil, fmt.Errorf("read payload: %w", err)
	}

	pkt := media.NewPacket(e.stream, e.ptsMS, buf)
	pkt.Keyframe = e.keyframe
	return pkt, nil
}

// Close releases the underlying file. Idempotent.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// scanProgram walks pack and PES headers, assigning stream indexes in
// order of first appearance.
func (r *Reader) scanProgram(data []byte) {
	streamIdx := make(map[byte]int)
	var minPTS, maxPTS int64 = -1, -1
	var videoFPS float64

	off := 0
	for off+4 <= len(data) {
		if data[off] != 0 || data[off+1] != 0 || data[off+2] != 1 {
			off++
			continue
		}
		code := data[off+3]

		switch {
		case code == codePackHeader:
			off += packHeaderLen(data[off:])

		case code == codeSystemHeader:
			if off+6 > len(data) {
				return
			}
			off += 6 + int(data[off+4])<<8 + int(data[off+5])

		case code == codeProgramEnd:
			r.finishDuration(minPTS, maxPTS, videoFPS)
			return

		case code >= 0xBC:
			h, ok := parsePES(data[off:])
			if !ok {
				off++
				continue
			}
			if isVideoStreamID(code) || isAudioStreamID(code) {
				payload := data[off+h.payloadStart : off+h.packetLen]

				idx, seen := streamIdx[code]
				if !seen {
					idx = len(r.streams)
					streamIdx[code] = idx
					r.streams = append(r.streams, r.newStream(idx, code, payload))
				}

				e := indexEntry{
					stream: idx,
					offset: int64(off + h.payloadStart),
					length: len(payload),
					ptsMS:  h.ptsMS,
				}
				if isVideoStreamID(code) {
					e.keyframe, _ = classifyPayload(payload)
					if r.streams[idx].Width == 0 {
						// Sequence header may show up later than the
						// stream's first payload.
						if at := findStartCode(payload, codeSequence); at >= 0 {
							r.streams[idx] = r.newStream(idx, code, payload[at:])
						}
					}
					if h.ptsMS >= 0 {
						if minPTS < 0 || h.ptsMS < minPTS {
							minPTS = h.ptsMS
						}
						if h.ptsMS > maxPTS {
							maxPTS = h.ptsMS
						}
					}
					if videoFPS == 0 {
						videoFPS = r.streams[idx].FrameRate
					}
				}
				r.entries = append(r.entries, e)
			}
			off += h.packetLen

		default:
			off++
		}
	}
	r.finishDuration(minPTS, maxPTS, videoFPS)
}

// scanRawES splits a bare MPEG-1 video elementary stream at picture
// start codes, so each packet approximates one access unit. The first
// packet keeps the sequence header and GOP in front of the first
// picture.
func (r *Reader) scanRawES(data []byte) {
	r.streams = append(r.streams, r.newStream(0, 0xE0, data))

	var bounds []int
	search := 4 // skip the sequence header's own start code
	for {
		at := findStartCode(data[search:], codePicture)
		if at < 0 {
			break
		}
		bounds = append(bounds, search+at)
		search += at + 4
	}
	if len(bounds) == 0 {
		bounds = append(bounds, 0)
	}

	start := 0
	for i := 1; i <= len(bounds); i++ {
		end := len(data)
		if i < len(bounds) {
			end = bounds[i]
		}
		payload := data[start:end]
		keyframe, _ := classifyPayload(payload)
		r.entries = append(r.entries, indexEntry{
			stream:   0,
			offset:   int64(start),
			length:   len(payload),
			ptsMS:    -1,
			keyframe: keyframe,
		})
		start = end
	}
}

// newStream builds a descriptor for a stream first seen with the given
// payload. Video metadata comes from the sequence header when the
// payload carries one.
func (r *Reader) newStream(index int, streamID byte, payload []byte) media.StreamInfo {
	info := media.StreamInfo{
		Index:     index,
		TimeScale: 90000, // program stream clock
	}

	if isAudioStreamID(streamID) {
		info.Type = media.MediaAudio
		info.Codec = media.CodecMP2
		return info
	}

	info.Type = media.MediaVideo
	info.Codec = media.CodecMPEG1
	if at := findStartCode(payload, codeSequence); at >= 0 {
		if sh, ok := parseSequenceHeader(payload[at:]); ok {
			info.Width = sh.width
			info.Height = sh.height
			info.FrameRate = sh.frameRate
			if sh.bitRate > 0 && r.info.BitRate < 0 {
				r.info.BitRate = sh.bitRate
			}
			if sh.mpeg2 {
				// MPEG-2 video: detected but outside the decoder set.
				info.Codec = media.CodecUnknown
			}
		}
	}
	return info
}

// finishDuration estimates the container duration from the video PTS
// span plus one frame.
func (r *Reader) finishDuration(minPTS, maxPTS int64, fps float64) {
	if minPTS < 0 || maxPTS < minPTS {
		return
	}
	d := maxPTS - minPTS
	if fps > 0 {
		d += int64(1000 / fps)
	}
	r.info.DurationMS = d
}

// Ensure Reader implements ports.ContainerReader
var _ ports.ContainerReader = (*Reader)(nil)
