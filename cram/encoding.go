package cram

// EncodingKind identifies which wire encoding a data series uses, per
// the per-tag encoding rules of spec section 4.6.
type EncodingKind int

const (
	// EncodingFixedWidth stores a length-prefixed byte array whose
	// length sub-encoding is a canonical Huffman of a one-symbol
	// alphabet (codeword length zero bits) fixed to the given size; data
	// lives in an external byte array.
	EncodingFixedWidth EncodingKind = iota
	// EncodingStopByte stores values back-to-back in an external byte
	// array, each terminated by a distinguished byte value.
	EncodingStopByte
	// EncodingExternalLength stores values in an external byte array
	// whose lengths are stored in a second external series (the "ByteArrayLen" encoding).
	EncodingExternalLength
)

// TagEncoding is the chosen per-tag-id encoding, plus the parameters
// spec section 4.6 requires to reproduce it losslessly.
type TagEncoding struct {
	Kind      EncodingKind
	FixedSize int  // EncodingFixedWidth
	StopByte  byte // EncodingStopByte
	ExternalID int32
}

// chooseTagEncoding implements spec section 4.6's per-tag encoding
// selection for one distinct tag id, given every value observed for it
// across the container.
func chooseTagEncoding(typeByte byte, values [][]byte, externalID int32) TagEncoding {
	if size, ok := fixedWidthSize(typeByte); ok {
		return TagEncoding{Kind: EncodingFixedWidth, FixedSize: size, ExternalID: externalID}
	}

	minLen, maxLen := -1, -1
	for _, v := range values {
		n := len(v)
		if minLen == -1 || n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
	}
	if minLen == maxLen {
		return TagEncoding{Kind: EncodingFixedWidth, FixedSize: minLen, ExternalID: externalID}
	}
	if typeByte == 'Z' {
		return TagEncoding{Kind: EncodingStopByte, StopByte: '\t', ExternalID: externalID}
	}
	// type 'B', variable size.
	if minLen > 100 {
		if b, ok := unusedByte(values); ok {
			return TagEncoding{Kind: EncodingStopByte, StopByte: b, ExternalID: externalID}
		}
	}
	return TagEncoding{Kind: EncodingExternalLength, ExternalID: externalID}
}

func fixedWidthSize(typeByte byte) (int, bool) {
	switch typeByte {
	case 'A', 'c', 'C':
		return 1, true
	case 's', 'S':
		return 2, true
	case 'I', 'i', 'f':
		return 4, true
	default:
		return 0, false
	}
}

// unusedByte scans the concatenated tag byte stream for a byte value
// that never appears, for use as a stop-byte encoding terminator.
func unusedByte(values [][]byte) (byte, bool) {
	var seen [256]bool
	for _, v := range values {
		for _, b := range v {
			seen[b] = true
		}
	}
	for b := 0; b < 256; b++ {
		if !seen[b] {
			return byte(b), true
		}
	}
	return 0, false
}
