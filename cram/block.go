package cram

import (
	"hash/crc32"
	"io"

	"github.com/Schaudge/cram/cram/itf8"
)

// ContentType identifies what a block carries, per spec section 4.7.
type ContentType byte

const (
	ContentFileHeader      ContentType = 0
	ContentCompressionHeader ContentType = 1
	ContentSliceHeader     ContentType = 2
	ContentExternal        ContentType = 4
	ContentCore            ContentType = 5
)

// Block is one serialized unit of the CRAM wire format: method byte,
// content-type byte, content-id varint, compressed-size varint,
// raw-size varint, payload, and a trailing little-endian crc32 of
// everything before it (spec section 4.7).
type Block struct {
	Method      CompressionMethod
	ContentType ContentType
	ContentID   int32 // 0 for core/header blocks
	RawSize     int32
	Payload     []byte // already compressed per Method
}

// NewRawBlock wraps uncompressed content with no compression attempted;
// used for header blocks, which CRAM typically stores uncompressed.
func NewRawBlock(ct ContentType, contentID int32, raw []byte) *Block {
	return &Block{Method: MethodRaw, ContentType: ct, ContentID: contentID, RawSize: int32(len(raw)), Payload: raw}
}

// NewCompressedBlock picks the best external compressor for raw (spec
// section 4.6) and wraps the result.
func NewCompressedBlock(ct ContentType, contentID int32, raw []byte) *Block {
	method, payload := chooseCompressor(raw)
	return &Block{Method: method, ContentType: ct, ContentID: contentID, RawSize: int32(len(raw)), Payload: payload}
}

// WriteTo serializes the block to w, returning the number of bytes
// written.
func (b *Block) WriteTo(w io.Writer) (int64, error) {
	var header []byte
	header = append(header, byte(b.Method))
	header = append(header, byte(b.ContentType))
	header = itf8.Encode(header, b.ContentID)
	header = itf8.Encode(header, int32(len(b.Payload)))
	header = itf8.Encode(header, b.RawSize)

	full := make([]byte, 0, len(header)+len(b.Payload)+4)
	full = append(full, header...)
	full = append(full, b.Payload...)
	crc := crc32.ChecksumIEEE(full)
	full = append(full, byte(crc), byte(crc>>8), byte(crc>>16), byte(crc>>24))

	n, err := w.Write(full)
	return int64(n), err
}
