// Package itf8 implements CRAM's ITF-8 variable-length integer encoding:
// one to five bytes, with the number of leading set bits in the first
// byte indicating how many continuation bytes follow.
//
// See CRAM spec section 6 and the read-only reference decoder this
// package's Decode mirrors (biogo/hts/cram/encoding/itf8), inverted here
// to support writing.
package itf8

// Len returns the number of bytes Encode(v) would produce.
func Len(v int32) int {
	u := uint32(v)
	switch {
	case u>>7 == 0:
		return 1
	case u>>14 == 0:
		return 2
	case u>>21 == 0:
		return 3
	case u>>28 == 0:
		return 4
	default:
		return 5
	}
}

// Encode appends the ITF-8 encoding of v to dst and returns the result.
func Encode(dst []byte, v int32) []byte {
	u := uint32(v)
	switch {
	case u>>7 == 0:
		return append(dst, byte(u))
	case u>>14 == 0:
		return append(dst, byte(0x80|(u>>8)), byte(u))
	case u>>21 == 0:
		return append(dst, byte(0xc0|(u>>16)), byte(u>>8), byte(u))
	case u>>28 == 0:
		return append(dst, byte(0xe0|(u>>24)), byte(u>>16), byte(u>>8), byte(u))
	default:
		return append(dst, byte(0xf0|(u>>28)), byte(u>>20), byte(u>>12), byte(u>>4), byte(u))
	}
}

// Decode decodes the ITF-8 value held in b.
//
// If b holds fewer bytes than the encoding needs (as determined by the
// leading bits of b[0]), Decode returns (0, requiredLen, false); the
// caller should read requiredLen-len(b) further bytes, append them, and
// call Decode again with the complete buffer.
//
// If b holds enough bytes, Decode returns (value, bytesConsumed, true).
func Decode(b []byte) (int32, int, bool) {
	if len(b) == 0 {
		return 0, 1, false
	}
	first := b[0]
	n := itf8Len(first)
	if len(b) < n {
		return 0, n, false
	}
	switch n {
	case 1:
		return int32(first), 1, true
	case 2:
		return int32(first&0x7f)<<8 | int32(b[1]), 2, true
	case 3:
		return int32(first&0x3f)<<16 | int32(b[1])<<8 | int32(b[2]), 3, true
	case 4:
		return int32(first&0x1f)<<24 | int32(b[1])<<16 | int32(b[2])<<8 | int32(b[3]), 4, true
	default:
		// The first and last bytes each contribute only their low 4
		// bits; the three middle bytes contribute all 8 (CRAM spec
		// section 6).
		v := int32(first&0x0f)<<28 | int32(b[1])<<20 | int32(b[2])<<12 | int32(b[3])<<4 | int32(b[4]&0x0f)
		return v, 5, true
	}
}

func itf8Len(first byte) int {
	switch {
	case first&0x80 == 0:
		return 1
	case first&0x40 == 0:
		return 2
	case first&0x20 == 0:
		return 3
	case first&0x10 == 0:
		return 4
	default:
		return 5
	}
}

// EncodeSlice encodes a length-prefixed array of ITF-8 values, as used
// for the container header's landmark list and the slice header's
// block-ID list: n[ITF-8] followed by n ITF-8-encoded elements.
func EncodeSlice(dst []byte, vs []int32) []byte {
	dst = Encode(dst, int32(len(vs)))
	for _, v := range vs {
		dst = Encode(dst, v)
	}
	return dst
}
