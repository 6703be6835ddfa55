package psreader

import "github.com/user/stillcut/pkg/media"

// MPEG start codes used by the scanner.
const (
	codePackHeader   = 0xBA
	codeSystemHeader = 0xBB
	codeProgramEnd   = 0xB9
	codeSequence     = 0xB3
	codeGOP          = 0xB8
	codePicture      = 0x00
	codeSeqExtension = 0xB5
)

// isVideoStreamID reports whether a PES stream_id carries video.
func isVideoStreamID(id byte) bool {
	return id >= 0xE0 && id <= 0xEF
}

// isAudioStreamID reports whether a PES stream_id carries MPEG audio.
func isAudioStreamID(id byte) bool {
	return id >= 0xC0 && id <= 0xDF
}

// parsePTS decodes the 33-bit 90 kHz timestamp packed into five bytes
// of a PES header and converts it to milliseconds.
func parsePTS(b []byte) int64 {
	if len(b) < 5 {
		return -1
	}
	pts := uint64(b[0]>>1&0x07)<<30 |
		uint64(b[1])<<22 |
		uint64(b[2]>>1&0x7F)<<15 |
		uint64(b[3])<<7 |
		uint64(b[4]>>1&0x7F)
	return int64(pts / 90)
}

// pesHeader is the parsed front matter of one PES packet.
type pesHeader struct {
	streamID     byte
	ptsMS        int64
	payloadStart int // offset of the payload relative to the PES packet start
	packetLen    int // total PES packet length including the 6-byte preamble
}

// parsePES parses one PES packet starting at data[0] (which must be
// the 00 00 01 prefix). Both MPEG-1 and MPEG-2 header layouts are
// handled; the marker bits after the packet length tell them apart.
func parsePES(data []byte) (pesHeader, bool) {
	h := pesHeader{ptsMS: -1}
	if len(data) < 6 || data[0] != 0 || data[1] != 0 || data[2] != 1 {
		return h, false
	}
	h.streamID = data[3]
	pesLen := int(data[4])<<8 | int(data[5])
	h.packetLen = 6 + pesLen
	if pesLen == 0 || h.packetLen > len(data) {
		return h, false
	}

	pos := 6
	if data[pos]&0xC0 == 0x80 {
		// MPEG-2: flags byte, then PES_header_data_length.
		if pos+3 > len(data) {
			return h, false
		}
		ptsDtsFlags := data[pos+1] >> 6
		headerLen := int(data[pos+2])
		optStart := pos + 3
		if ptsDtsFlags == 0x02 || ptsDtsFlags == 0x03 {
			if optStart+5 <= len(data) {
				h.ptsMS = parsePTS(data[optStart : optStart+5])
			}
		}
		h.payloadStart = optStart + headerLen
	} else {
		// MPEG-1: stuffing bytes, optional STD buffer size, then the
		// timestamp nibble.
		for pos < h.packetLen && data[pos] == 0xFF {
			pos++
		}
		if pos < h.packetLen && data[pos]&0xC0 == 0x40 {
			pos += 2
		}
		if pos >= h.packetLen {
			return h, false
		}
		switch data[pos] >> 4 {
		case 0x02:
			if pos+5 <= len(data) {
				h.ptsMS = parsePTS(data[pos : pos+5])
			}
			pos += 5
		case 0x03:
			if pos+5 <= len(data) {
				h.ptsMS = parsePTS(data[pos : pos+5])
			}
			pos += 10
		default:
			pos++
		}
		h.payloadStart = pos
	}

	if h.payloadStart > h.packetLen {
		return h, false
	}
	return h, true
}

// packHeaderLen returns the byte length of the pack header starting at
// data[0] (00 00 01 BA). MPEG-2 packs carry a stuffing length in their
// fourteenth byte; MPEG-1 packs are fixed twelve bytes.
func packHeaderLen(data []byte) int {
	if len(data) < 5 {
		return len(data)
	}
	if data[4]&0xC0 == 0x40 {
		// MPEG-2
		if len(data) < 14 {
			return len(data)
		}
		return 14 + int(data[13]&0x07)
	}
	// MPEG-1
	return 12
}

// sequenceHeader is the parsed MPEG video sequence header.
type sequenceHeader struct {
	width     int
	height    int
	frameRate float64
	bitRate   int64 // bits per second, -1 when variable
	mpeg2     bool  // a sequence extension follows: MPEG-2 video
}

var frameRateTable = [...]float64{
	0, 23.976, 24, 25, 29.97, 30, 50, 59.94, 60,
}

// parseSequenceHeader parses a video sequence header found in es,
// which must begin with 00 00 01 B3.
func parseSequenceHeader(es []byte) (sequenceHeader, bool) {
	var sh sequenceHeader
	if len(es) < 12 || es[0] != 0 || es[1] != 0 || es[2] != 1 || es[3] != codeSequence {
		return sh, false
	}

	sh.width = int(es[4])<<4 | int(es[5])>>4
	sh.height = int(es[5]&0x0F)<<8 | int(es[6])

	frameRateCode := es[7] & 0x0F
	if int(frameRateCode) < len(frameRateTable) {
		sh.frameRate = frameRateTable[frameRateCode]
	}

	// 18-bit bit_rate in units of 400 bps; all ones means variable.
	rate := int64(es[8])<<10 | int64(es[9])<<2 | int64(es[10])>>6
	if rate == 0x3FFFF {
		sh.bitRate = -1
	} else {
		sh.bitRate = rate * 400
	}

	// A sequence extension right after the header means MPEG-2 video,
	// which the MPEG-1 decoder cannot handle.
	if next := findStartCode(es[4:], codeSeqExtension); next >= 0 && next < 140 {
		sh.mpeg2 = true
	}
	return sh, true
}

// findStartCode returns the offset of the first 00 00 01 <code> in
// data, or -1.
func findStartCode(data []byte, code byte) int {
	for i := 0; i+4 <= len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 && data[i+3] == code {
			return i
		}
	}
	return -1
}

// classifyPayload inspects a video payload chunk for its leading
// picture header: the keyframe flag and picture type drive the
// per-frame diagnostics.
func classifyPayload(payload []byte) (keyframe bool, picType byte) {
	picType = media.PictureTypeUnknown
	if findStartCode(payload, codeSequence) >= 0 || findStartCode(payload, codeGOP) >= 0 {
		keyframe = true
	}
	at := findStartCode(payload, codePicture)
	if at < 0 || at+6 > len(payload) {
		return keyframe, picType
	}
	// picture_coding_type: 3 bits after the 10-bit temporal reference.
	switch (payload[at+5] >> 3) & 0x07 {
	case 1:
		keyframe = true
		picType = media.PictureTypeI
	case 2:
		picType = media.PictureTypeP
	case 3:
		picType = media.PictureTypeB
	}
	return keyframe, picType
}
