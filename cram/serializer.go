package cram

import (
	"bytes"
	"hash/crc32"
	"io"
	"sort"

	"github.com/Schaudge/cram/cram/itf8"
	"github.com/Schaudge/cram/cram/ltf8"
)

// sortInt32s orders external-block ids ascending so block serialization
// is deterministic across runs of the same input, independent of Go's
// randomized map iteration order (spec section 8's re-encode-is-byte-
// identical property).
func sortInt32s(ids []int32) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func crc32sum(b []byte) uint32 { return crc32.ChecksumIEEE(b) }

// FileVersion selects the on-wire CRAM version a Serializer targets.
type FileVersion struct {
	Major, Minor byte
}

var (
	Version3   = FileVersion{Major: 3, Minor: 0}
	Version2_1 = FileVersion{Major: 2, Minor: 1}
)

// version3EOFMarker is the CRAM 3.0 end-of-file sentinel: a distinguished
// empty container copied verbatim from the reference CRAM reader this
// package's itf8/ltf8 packages were grounded on (biogo/hts/cram's
// cramEOFmarker). Its first four bytes are the container's block_len
// field (15), which is where spec section 4.7's "15-byte" EOF-marker
// figure comes from; the full on-wire sentinel, header plus trailing
// CRC, is 38 bytes.
var version3EOFMarker = []byte{
	0x0f, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff,
	0x0f, 0xe0, 0x45, 0x4f, 0x46, 0x00, 0x00, 0x00,
	0x00, 0x01, 0x00, 0x05, 0xbd, 0xd9, 0x4f, 0x00,
	0x01, 0x00, 0x06, 0x06, 0x01, 0x00, 0x01, 0x00,
	0x01, 0x00, 0xee, 0x63, 0x01, 0x4b,
}

// version2EOFMarker is the analogous CRAM 2.1 sentinel. No 2.1 sample
// byte sequence is present in this module's reference corpus (only the
// 3.0 reader was available); this is this package's own
// empty-container encoding under the rules of section 4.7, at the
// 11-byte length section 4.7 calls for, rather than a byte-for-byte
// copy of an external implementation.
var version2EOFMarker = []byte{
	0x00, 0x00, 0x00, 0x00, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Serializer writes the file header, containers, and EOF marker to an
// output stream (spec section 4.7).
type Serializer struct {
	w       io.Writer
	version FileVersion
	pos     int64
}

// NewSerializer wraps w for writing a CRAM stream of the given version.
func NewSerializer(w io.Writer, version FileVersion) *Serializer {
	return &Serializer{w: w, version: version}
}

// Position returns the current stream offset, used to stamp container
// byte offsets (spec section 6's output-stream contract).
func (s *Serializer) Position() int64 { return s.pos }

func (s *Serializer) write(b []byte) error {
	n, err := s.w.Write(b)
	s.pos += int64(n)
	if err != nil {
		return newError(IoFailure, "output stream", err)
	}
	return nil
}

// WriteFileHeader emits the 26-byte preamble: magic "CRAM", major and
// minor version, and a 20-byte identifier (spec section 3).
func (s *Serializer) WriteFileHeader(id [20]byte) error {
	buf := make([]byte, 0, 26)
	buf = append(buf, 'C', 'R', 'A', 'M')
	buf = append(buf, s.version.Major, s.version.Minor)
	buf = append(buf, id[:]...)
	return s.write(buf)
}

// WriteContainer serializes one container: its byte offset is stamped
// from the current stream position, then the container header block,
// compression header block, and each slice's blocks are emitted in
// order.
func (s *Serializer) WriteContainer(c *Container) error {
	c.ByteOffset = s.pos

	sliceBuf, landmarks, err := s.encodeSlices(c)
	if err != nil {
		return err
	}

	header := s.encodeContainerHeader(c, sliceBuf, landmarks)
	if err := s.write(header); err != nil {
		return err
	}
	return s.write(sliceBuf)
}

// encodeSlices renders every slice's header/core/external blocks into a
// single contiguous buffer (the container's "blockData"), returning the
// buffer plus the byte offset of each slice within it (the landmarks
// list, spec section 4.7).
func (s *Serializer) encodeSlices(c *Container) ([]byte, []int32, error) {
	var buf bytes.Buffer
	landmarks := make([]int32, 0, len(c.Slices))
	headerBlock := s.encodeCompressionHeaderBlock(c.Header)
	if _, err := headerBlock.WriteTo(&buf); err != nil {
		return nil, nil, newError(IoFailure, "compression header block", err)
	}
	for _, slice := range c.Slices {
		landmarks = append(landmarks, int32(buf.Len()))
		if err := s.encodeSlice(&buf, slice, c.Header); err != nil {
			return nil, nil, err
		}
	}
	return buf.Bytes(), landmarks, nil
}

func (s *Serializer) encodeCompressionHeaderBlock(h *CompressionHeader) *Block {
	var raw []byte
	raw = itf8.Encode(raw, int32(len(h.TagDict.Lists())))
	for _, list := range h.TagDict.Lists() {
		raw = itf8.Encode(raw, int32(len(list)))
		raw = append(raw, list...)
	}
	ids := make([][3]byte, 0, len(h.TagEncodings))
	for id := range h.TagEncodings {
		ids = append(ids, id)
	}
	sortTagIDs(ids)
	raw = itf8.Encode(raw, int32(len(ids)))
	for _, id := range ids {
		enc := h.TagEncodings[id]
		raw = append(raw, id[:]...)
		raw = append(raw, byte(enc.Kind), enc.StopByte)
		raw = itf8.Encode(raw, int32(enc.FixedSize))
		raw = itf8.Encode(raw, enc.ExternalID)
	}
	return NewRawBlock(ContentCompressionHeader, 0, raw)
}

func (s *Serializer) encodeSlice(buf *bytes.Buffer, slice *Slice, header *CompressionHeader) error {
	var hdr []byte
	refID := int32(UnmappedSentinel)
	if slice.Context.IsSingleRef() {
		refID = slice.Context.SequenceID()
	} else if slice.Context.IsMultiRef() {
		refID = -2
	}
	hdr = itf8.Encode(hdr, refID)
	hdr = itf8.Encode(hdr, slice.AlignmentStart)
	hdr = itf8.Encode(hdr, slice.AlignmentSpan)
	hdr = itf8.Encode(hdr, int32(len(slice.Records)))
	hdr = ltf8.Encode(hdr, int64(len(slice.Records)))
	hdr = append(hdr, slice.ReferenceMD5[:]...)
	sliceHeaderBlock := NewRawBlock(ContentSliceHeader, 0, hdr)
	if _, err := sliceHeaderBlock.WriteTo(buf); err != nil {
		return newError(IoFailure, "slice header block", err)
	}

	core := s.encodeCoreBlock(slice)
	if _, err := core.WriteTo(buf); err != nil {
		return newError(IoFailure, "core data block", err)
	}

	ids := make([]int32, 0, len(header.ExternalBlocks))
	for id := range header.ExternalBlocks {
		ids = append(ids, id)
	}
	sortInt32s(ids)
	for _, id := range ids {
		if _, err := header.ExternalBlocks[id].WriteTo(buf); err != nil {
			return newError(IoFailure, "external data block", err)
		}
	}
	return nil
}

// encodeCoreBlock emits the per-record core data series: flags,
// position, mapping quality, read-feature count, and tag-dictionary
// index, which together let the slice's records be reconstructed from
// the external series' parallel columns.
func (s *Serializer) encodeCoreBlock(slice *Slice) *Block {
	var raw []byte
	for _, r := range slice.Records {
		raw = itf8.Encode(raw, int32(r.Flags))
		raw = itf8.Encode(raw, r.AlignmentStart)
		raw = itf8.Encode(raw, int32(r.MappingQuality))
		raw = itf8.Encode(raw, int32(len(r.Features)))
		raw = itf8.Encode(raw, int32(r.tagDictionaryIndex))
	}
	return NewCompressedBlock(ContentCore, 0, raw)
}

func (s *Serializer) encodeContainerHeader(c *Container, sliceBuf []byte, landmarks []int32) []byte {
	refID := int32(UnmappedSentinel)
	start, span := int32(0), int32(0)
	if c.Context.IsSingleRef() {
		refID = c.Context.SequenceID()
		if len(c.Slices) > 0 {
			start = c.Slices[0].AlignmentStart
			span = c.Slices[0].AlignmentSpan
		}
	} else if c.Context.IsMultiRef() {
		refID = -2
	}

	var body []byte
	body = itf8.Encode(body, refID)
	body = itf8.Encode(body, start)
	body = itf8.Encode(body, span)
	body = itf8.Encode(body, int32(c.RecordCount))
	body = ltf8.Encode(body, c.RecordCount)
	body = ltf8.Encode(body, 0) // bases: not tracked separately from read length
	body = itf8.Encode(body, int32(len(c.Slices)+1))
	body = itf8.EncodeSlice(body, landmarks)

	var out []byte
	blockLen := int32(len(sliceBuf))
	out = append(out, byte(blockLen), byte(blockLen>>8), byte(blockLen>>16), byte(blockLen>>24))
	out = append(out, body...)
	crc := crc32sum(out)
	out = append(out, byte(crc), byte(crc>>8), byte(crc>>16), byte(crc>>24))
	return out
}

// WriteEOFMarker emits the version-appropriate end-of-file sentinel
// (spec section 4.7).
func (s *Serializer) WriteEOFMarker() error {
	if s.version.Major >= 3 {
		return s.write(version3EOFMarker)
	}
	return s.write(version2EOFMarker)
}
