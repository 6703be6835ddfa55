package mp4reader

import "github.com/Eyevinn/mp4ff/mp4"

var startCode = []byte{0, 0, 0, 1}

// appendAnnexB converts one AVCC sample (length-prefixed NALUs) to
// Annex B framing (start-code prefixed) and appends it to dst.
func appendAnnexB(dst, sample []byte) []byte {
	offset := 0
	for offset+4 <= len(sample) {
		naluLen := int(sample[offset])<<24 | int(sample[offset+1])<<16 |
			int(sample[offset+2])<<8 | int(sample[offset+3])
		offset += 4

		if naluLen < 0 || offset+naluLen > len(sample) {
			break
		}

		dst = append(dst, startCode...)
		dst = append(dst, sample[offset:offset+naluLen]...)
		offset += naluLen
	}
	return dst
}

// parameterSets flattens the avcC parameter set NALUs into one Annex B
// blob. Decoders get it as stream extradata, and keyframe packets get
// it prepended so each sync point is independently decodable.
func parameterSets(avcC *mp4.AvcCBox) []byte {
	if avcC == nil {
		return nil
	}
	var ps []byte
	for _, sps := range avcC.SPSnalus {
		ps = append(ps, startCode...)
		ps = append(ps, sps...)
	}
	for _, pps := range avcC.PPSnalus {
		ps = append(ps, startCode...)
		ps = append(ps, pps...)
	}
	return ps
}
