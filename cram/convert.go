package cram

import (
	"fmt"

	"github.com/Schaudge/cram/sam"
)

// RecordConverter turns externally supplied aligned records into
// CompressionRecords, deriving read features from each record's CIGAR
// against the reference region cache (spec section 4.2).
type RecordConverter struct {
	strategy *EncodingStrategy
	region   *ReferenceRegion
	header   *sam.Header

	nameCounter      int // records synthesized so far, stream-wide
	containerOrdinal int // containers fully emitted so far
	sliceOrdinal     int // slices fully emitted so far, stream-wide
}

// NewRecordConverter builds a converter over the given header (used to
// resolve reference names for the region cache) and strategy.
func NewRecordConverter(header *sam.Header, region *ReferenceRegion, strategy *EncodingStrategy) *RecordConverter {
	return &RecordConverter{strategy: strategy, region: region, header: header}
}

// NoteSliceEmitted advances the slice ordinal used in synthesized read
// names; the Writer calls this once a slice has been finalized.
func (c *RecordConverter) NoteSliceEmitted() { c.sliceOrdinal++ }

// NoteContainerEmitted advances the container ordinal used in synthesized
// read names; the Writer calls this once a container has been flushed.
func (c *RecordConverter) NoteContainerEmitted() { c.containerOrdinal++ }

// Convert implements the record-converter contract: one externally
// supplied record in, one CompressionRecord out.
func (c *RecordConverter) Convert(rec *sam.Record) (*CompressionRecord, error) {
	cr := GetCompressionRecord()
	cr.Flags = uint16(rec.Flags)
	cr.SequenceID = int32(rec.RefID())
	cr.AlignmentStart = int32(rec.Pos + 1)
	cr.ReadLength = int32(rec.Seq.Length)
	cr.MappingQuality = rec.MapQ
	cr.TemplateSize = int32(rec.TempLen)
	if rec.MateRef != nil {
		cr.MateSequenceID = int32(rec.MateRef.ID())
	} else {
		cr.MateSequenceID = UnmappedSentinel
	}
	cr.MateAlignmentStart = int32(rec.MatePos + 1)

	if !cr.isUnmapped() && len(rec.Cigar) != 0 {
		ref := c.header.Reference(int(cr.SequenceID))
		if ref == nil {
			PutCompressionRecord(cr)
			return nil, newError(UnknownContig, rec.Name, nil)
		}
		if err := c.region.FetchContig(cr.SequenceID, ref.Name()); err != nil {
			PutCompressionRecord(cr)
			return nil, err
		}
	}

	if !c.strategy.PreserveReadNames && len(rec.Name) == 0 {
		// htsjdk's synthesized-name scheme: container-index_slice-index_record-index,
		// using the ordinals in flight at conversion time (spec section 6).
		cr.Name = []byte(fmt.Sprintf("%d_%d_%d", c.containerOrdinal, c.sliceOrdinal, c.nameCounter))
		c.nameCounter++
	} else {
		cr.Name = append(cr.Name[:0], rec.Name...)
	}

	cr.Bases = append(cr.Bases[:0], rec.Seq.Expand()...)
	cr.Quals = append(cr.Quals[:0], rec.Qual...)
	for i, b := range cr.Bases {
		cr.Bases[i] = upper(b)
	}

	c.deriveFeatures(cr, rec)
	c.captureTags(cr, rec)

	return cr, nil
}

// deriveFeatures walks rec's CIGAR against the reference region,
// emitting read features per the dispatch table in spec section 4.2.
func (c *RecordConverter) deriveFeatures(cr *CompressionRecord, rec *sam.Record) {
	if cr.isUnmapped() || len(rec.Cigar) == 0 {
		// Unmapped: no CIGAR to walk, no reference comparison to make.
		return
	}

	bases := cr.Bases
	quals := cr.Quals
	readPos := 0   // 0-based position in read
	refOffset := 0 // 0-based offset from AlignmentStart

	for _, op := range rec.Cigar {
		n := op.Len()
		switch op.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			for i := 0; i < n; i++ {
				rb := bases[readPos]
				refBase := upper(c.region.BaseAt(int(cr.AlignmentStart) - 1 + refOffset))
				if rb != refBase {
					var q byte
					if readPos < len(quals) {
						q = quals[readPos]
					}
					if isACGTN(rb) && isACGTN(refBase) {
						cr.Features = append(cr.Features, substitution(readPos+1, refBase, rb))
					} else {
						cr.Features = append(cr.Features, readBase(readPos+1, rb, q))
					}
				}
				readPos++
				refOffset++
			}
		case sam.CigarInsertion:
			for i := 0; i < n; i++ {
				cr.Features = append(cr.Features, insertBase(readPos+1, bases[readPos]))
				readPos++
			}
		case sam.CigarSoftClipped:
			clip := append([]byte(nil), bases[readPos:readPos+n]...)
			cr.Features = append(cr.Features, softClip(readPos+1, clip))
			readPos += n
		case sam.CigarDeletion:
			cr.Features = append(cr.Features, deletion(readPos+1, n))
			refOffset += n
		case sam.CigarSkipped:
			cr.Features = append(cr.Features, refSkip(readPos+1, n))
			refOffset += n
		case sam.CigarPadded:
			cr.Features = append(cr.Features, padding(readPos+1, n))
		case sam.CigarHardClipped:
			cr.Features = append(cr.Features, hardClip(readPos+1, n))
		}
	}
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// captureTags applies the tag-selection policy (spec section 4.2) and
// sorts the retained tags by tag-id.
func (c *RecordConverter) captureTags(cr *CompressionRecord, rec *sam.Record) {
	for _, aux := range rec.AuxFields {
		tag := aux.Tag()
		if !c.strategy.shouldCapture([2]byte{tag[0], tag[1]}) {
			continue
		}
		id := [3]byte{tag[0], tag[1], aux.Type()}
		cr.Tags = append(cr.Tags, tagValue{ID: id, Value: append([]byte(nil), aux[3:]...)})
	}
	sortTagsByID(cr.Tags)
}
