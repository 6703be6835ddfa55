// Package mp4reader reads ISO base media files (progressive and
// fragmented) and demultiplexes them into timestamp-ordered packets.
// H.264 samples are re-framed from AVCC length prefixes to Annex B
// start codes with parameter sets prepended at sync points; AV1
// samples pass through as raw OBUs.
package mp4reader

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/stillcut/pkg/adapters/formatdetect"
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/ports"
)

// Reader implements ports.ContainerReader for MP4 files.
type Reader struct {
	log ports.Logger

	file   *os.File
	mp4    *mp4.File
	info   media.ContainerInfo
	tracks []*track
	probed bool
}

// New creates an MP4 container reader.
func New(log ports.Logger) *Reader {
	return &Reader{log: log.WithComponent("mp4reader")}
}

// Open parses the file's box structure and fills container metadata.
func (r *Reader) Open(path string) (media.ContainerInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return media.ContainerInfo{}, fmt.Errorf("open file: %w", err)
	}

	parsed, err := mp4.DecodeFile(f)
	if err != nil {
		f.Close()
		return media.ContainerInfo{}, fmt.Errorf("decode mp4 %q: %w", path, ports.ErrUnrecognizedFormat)
	}

	r.file = f
	r.mp4 = parsed
	r.info = containerInfo(parsed)
	r.log.Debug("Parsed %s: fragmented=%t", path, parsed.IsFragmented())
	return r.info, nil
}

// ProbeStreams builds one descriptor per track, in track order.
func (r *Reader) ProbeStreams() error {
	if r.mp4 == nil {
		return fmt.Errorf("probe before open: %w", ports.ErrNoStreamInfo)
	}

	moov := r.moov()
	if moov == nil || len(moov.Traks) == 0 {
		return fmt.Errorf("no tracks: %w", ports.ErrNoStreamInfo)
	}

	for i, trak := range moov.Traks {
		t, err := r.newTrack(i, trak)
		if err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
		r.tracks = append(r.tracks, t)
	}

	r.probed = true
	r.log.Debug("Probed %d streams", len(r.tracks))
	return nil
}

// Streams returns the descriptors built by ProbeStreams.
func (r *Reader) Streams() []media.StreamInfo {
	infos := make([]media.StreamInfo, len(r.tracks))
	for i, t := range r.tracks {
		infos[i] = t.info
	}
	return infos
}

// ReadPacket returns the next packet across all tracks in decode time
// order, or io.EOF once every track is exhausted.
func (r *Reader) ReadPacket() (*media.Packet, error) {
	if !r.probed {
		return nil, fmt.Errorf("read before probe: %w", ports.ErrNoStreamInfo)
	}

	var best *track
	var bestTime int64
	for _, t := range r.tracks {
		next, ok := t.peekTimeMS()
		if !ok {
			continue
		}
		if best == nil || next < bestTime {
			best = t
			bestTime = next
		}
	}
	if best == nil {
		return nil, io.EOF
	}
	return best.readPacket(r.file)
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

// moov returns the movie box regardless of layout.
func (r *Reader) moov() *mp4.MoovBox {
	if r.mp4.IsFragmented() {
		if r.mp4.Init != nil {
			return r.mp4.Init.Moov
		}
		return nil
	}
	return r.mp4.Moov
}

// containerInfo derives format-level metadata. Duration comes from
// mvhd; the bit rate is estimated from the sample tables and is -1
// when the layout does not make that cheap.
func containerInfo(f *mp4.File) media.ContainerInfo {
	info := media.ContainerInfo{Format: "mp4", DurationMS: -1, BitRate: -1}

	var moov *mp4.MoovBox
	if f.IsFragmented() {
		if f.Init != nil {
			moov = f.Init.Moov
		}
	} else {
		moov = f.Moov
	}
	if moov == nil || moov.Mvhd == nil || moov.Mvhd.Timescale == 0 {
		return info
	}

	if moov.Mvhd.Duration > 0 {
		info.DurationMS = int64(moov.Mvhd.Duration * 1000 / uint64(moov.Mvhd.Timescale))
	}

	if !f.IsFragmented() && info.DurationMS > 0 {
		var total uint64
		for _, trak := range moov.Traks {
			stbl := sampleTable(trak)
			if stbl == nil || stbl.Stsz == nil {
				continue
			}
			for nr := uint32(1); nr <= stbl.Stsz.SampleNumber; nr++ {
				total += uint64(stbl.Stsz.GetSampleSize(int(nr)))
			}
		}
		if total > 0 {
			info.BitRate = int64(total * 8 * 1000 / uint64(info.DurationMS))
		}
	}
	return info
}

func sampleTable(trak *mp4.TrakBox) *mp4.StblBox {
	if trak.Mdia == nil || trak.Mdia.Minf == nil {
		return nil
	}
	return trak.Mdia.Minf.Stbl
}

// track is the per-stream packet cursor. Progressive tracks walk the
// sample tables lazily and read payloads from the file; fragmented
// tracks are flattened into memory up front, the way the fragment API
// hands them out.
type track struct {
	info   media.StreamInfo
	codec  media.Codec
	spsPPS []byte

	timescale uint32

	// progressive cursor
	stbl        *mp4.StblBox
	sampleNr    uint32
	sampleCount uint32
	sync        map[uint32]bool

	// fragmented cursor
	fragmented  bool
	fragSamples []fragSample
	fragPos     int
}

type fragSample struct {
	data     []byte
	timeMS   int64 // decode time, orders the interleave
	ptsMS    int64
	durMS    int64
	keyframe bool
}

func (r *Reader) newTrack(index int, trak *mp4.TrakBox) (*track, error) {
	t := &track{timescale: 1000}

	if trak.Mdia != nil && trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		t.timescale = trak.Mdia.Mdhd.Timescale
	}

	info := media.StreamInfo{
		Index:     index,
		Type:      media.MediaUnknown,
		Codec:     media.CodecUnknown,
		TimeScale: t.timescale,
	}

	if trak.Mdia != nil && trak.Mdia.Hdlr != nil {
		switch trak.Mdia.Hdlr.HandlerType {
		case "vide":
			info.Type = media.MediaVideo
		case "soun":
			info.Type = media.MediaAudio
			info.SampleRate = int(t.timescale)
		}
	}

	stbl := sampleTable(trak)
	if stbl != nil && stbl.Stsd != nil {
		for _, child := range stbl.Stsd.Children {
			info.Codec = formatdetect.CodecFromSampleEntry(child.Type())
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
				info.Width = int(vse.Width)
				info.Height = int(vse.Height)
				if vse.AvcC != nil {
					t.spsPPS = parameterSets(vse.AvcC)
					info.Extradata = t.spsPPS
				}
			}
			if ase, ok := child.(*mp4.AudioSampleEntryBox); ok {
				info.Channels = int(ase.ChannelCount)
				if ase.SampleRate > 0 {
					info.SampleRate = int(ase.SampleRate)
				}
			}
			break
		}
	}

	if stbl != nil && stbl.Stts != nil && stbl.Stsz != nil && stbl.Stsz.SampleNumber > 0 {
		if _, dur := stbl.Stts.GetDecodeTime(1); dur > 0 {
			info.FrameRate = float64(t.timescale) / float64(dur)
		}
	}

	t.info = info
	t.codec = info.Codec

	if r.mp4.IsFragmented() {
		t.fragmented = true
		if err := t.loadFragments(r.mp4, trak); err != nil {
			return nil, err
		}
		if info.FrameRate == 0 && len(t.fragSamples) > 1 {
			if dur := t.fragSamples[0].durMS; dur > 0 {
				t.info.FrameRate = 1000.0 / float64(dur)
			}
		}
		return t, nil
	}

	if stbl == nil || stbl.Stsz == nil {
		return nil, fmt.Errorf("no sample table: %w", ports.ErrNoStreamInfo)
	}
	t.stbl = stbl
	t.sampleNr = 1
	t.sampleCount = stbl.Stsz.SampleNumber
	t.sync = make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			t.sync[nr] = true
		}
	}
	return t, nil
}

// loadFragments flattens every fragment of the track into memory.
func (t *track) loadFragments(f *mp4.File, trak *mp4.TrakBox) error {
	trackID := trak.Tkhd.TrackID

	var trex *mp4.TrexBox
	if f.Init != nil && f.Init.Moov != nil && f.Init.Moov.Mvex != nil {
		for _, tr := range f.Init.Moov.Mvex.Trexs {
			if tr.TrackID == trackID {
				trex = tr
				break
			}
		}
	}

	for _, seg := range f.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != trackID {
					continue
				}

				var baseTime uint64
				if traf.Tfdt != nil {
					baseTime = traf.Tfdt.BaseMediaDecodeTime()
				}

				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return fmt.Errorf("get samples: %w", err)
				}

				currentTime := baseTime
				for i, sample := range samples {
					t.fragSamples = append(t.fragSamples, fragSample{
						data:     sample.Data,
						timeMS:   int64(currentTime * 1000 / uint64(t.timescale)),
						ptsMS:    presentationMS(currentTime, sample.CompositionTimeOffset, t.timescale),
						durMS:    int64(uint64(sample.Dur) * 1000 / uint64(t.timescale)),
						keyframe: sample.Flags == mp4.SyncSampleFlags || i == 0,
					})
					currentTime += uint64(sample.Dur)
				}
			}
		}
	}

	sort.SliceStable(t.fragSamples, func(i, j int) bool {
		return t.fragSamples[i].timeMS < t.fragSamples[j].timeMS
	})
	return nil
}

// peekTimeMS returns the decode time of the track's next sample.
func (t *track) peekTimeMS() (int64, bool) {
	if t.fragmented {
		if t.fragPos >= len(t.fragSamples) {
			return 0, false
		}
		return t.fragSamples[t.fragPos].timeMS, true
	}
	if t.sampleNr > t.sampleCount {
		return 0, false
	}
	var decodeTime uint64
	if t.stbl.Stts != nil {
		decodeTime, _ = t.stbl.Stts.GetDecodeTime(t.sampleNr)
	}
	return int64(decodeTime * 1000 / uint64(t.timescale)), true
}

// readPacket consumes the track's next sample and wraps it in a
// packet. Payload buffers come from the shared pool and are recycled
// by Packet.Release.
func (t *track) readPacket(rs io.ReadSeeker) (*media.Packet, error) {
	if t.fragmented {
		s := t.fragSamples[t.fragPos]
		t.fragPos++
		return t.buildPacket(s.data, s.ptsMS, s.durMS, s.keyframe), nil
	}

	sampleNr := t.sampleNr
	t.sampleNr++

	raw, err := readSampleData(t.stbl, rs, sampleNr)
	if err != nil {
		return nil, fmt.Errorf("sample %d: %w", sampleNr, err)
	}

	var decodeTime uint64
	var dur uint32
	if t.stbl.Stts != nil {
		decodeTime, dur = t.stbl.Stts.GetDecodeTime(sampleNr)
	}
	var cto int32
	if t.stbl.Ctts != nil {
		cto = t.stbl.Ctts.GetCompositionTimeOffset(sampleNr)
	}
	ptsMS := presentationMS(decodeTime, cto, t.timescale)
	durMS := int64(uint64(dur) * 1000 / uint64(t.timescale))
	keyframe := t.sync[sampleNr] || len(t.sync) == 0

	return t.buildPacket(raw, ptsMS, durMS, keyframe), nil
}

// presentationMS applies a ctts composition offset to a decode time
// and converts to milliseconds. The offset can be negative with ctts
// version 1.
func presentationMS(decodeTime uint64, offset int32, timescale uint32) int64 {
	return (int64(decodeTime) + int64(offset)) * 1000 / int64(timescale)
}

// buildPacket copies the sample payload into a pooled buffer, applying
// the codec's packet framing.
func (t *track) buildPacket(raw []byte, ptsMS, durMS int64, keyframe bool) *media.Packet {
	buf := media.GetBuffer(0)[:0]
	if t.codec == media.CodecH264 {
		if keyframe {
			buf = append(buf, t.spsPPS...)
		}
		buf = appendAnnexB(buf, raw)
	} else {
		buf = append(buf, raw...)
	}

	pkt := media.NewPacket(t.info.Index, ptsMS, buf)
	pkt.DurationMS = durMS
	pkt.Keyframe = keyframe
	return pkt
}

// readSampleData resolves a sample's file position through the
// stsc/stco/co64 chunk maps and reads its bytes.
func readSampleData(stbl *mp4.StblBox, rs io.ReadSeeker, sampleNr uint32) ([]byte, error) {
	if stbl.Stsc == nil || stbl.Stsz == nil {
		return nil, fmt.Errorf("missing stsc or stsz box")
	}

	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return nil, fmt.Errorf("get chunk nr: %w", err)
	}

	var chunkOffset uint64
	switch {
	case stbl.Stco != nil:
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("get chunk offset: %w", err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("chunk nr out of range")
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return nil, fmt.Errorf("no stco or co64 box")
	}

	offset := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}

	if _, err := rs.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to sample: %w", err)
	}

	data := make([]byte, stbl.Stsz.GetSampleSize(int(sampleNr)))
	if _, err := io.ReadFull(rs, data); err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return data, nil
}

// Ensure Reader implements ports.ContainerReader
var _ ports.ContainerReader = (*Reader)(nil)
