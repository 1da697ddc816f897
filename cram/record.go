package cram

import "sync"

// tagValue is one captured, already-filtered tag: its 3-byte id (name,
// name, type byte) plus its raw wire-format value bytes, matching
// sam.Aux's own on-wire representation so no re-encoding is needed.
type tagValue struct {
	ID    [3]byte
	Value []byte
}

// CompressionRecord is the internal record the write pipeline threads
// through the mate resolver, slice builder, and compression-header
// factory. It is created by the record converter, mutated in place by
// the mate resolver, and discarded once its container is emitted (spec
// section 3).
type CompressionRecord struct {
	Flags     uint16
	MateFlags uint8

	SequenceID     int32
	AlignmentStart int32 // 1-based; 0 if unmapped
	ReadLength     int32
	MappingQuality uint8
	TemplateSize   int32
	ReadGroup      int32 // ordinal into the header's read-group list, -1 if none

	Name []byte

	Bases []byte // normalized uppercase ACGTN where derivable; see Features for exceptions
	Quals []byte

	Features []ReadFeature
	Tags     []tagValue

	// SliceIndex is this record's 0-based sequential position within its
	// slice, assigned by the slice builder when the record is appended.
	SliceIndex int

	// Detached is set by the mate resolver when this record's mate
	// information cannot be reconstructed losslessly from the in-slice
	// chain (spec section 4.3).
	Detached bool

	// NextFragmentDelta is the slice-local index delta to this record's
	// mate, set only when not Detached. Weak: never escapes the slice
	// (spec section 9's cyclic-graph design note).
	NextFragmentDelta int32
	HasMateLink       bool

	// Explicit mate fields, populated for detached records.
	MateSequenceID     int32
	MateAlignmentStart int32
	MateFlags2         uint16

	// tagDictionaryIndex is this record's index into the container's tag
	// dictionary, assigned once when the compression-header factory first
	// sees the record's sorted tag-id list (spec section 4.6).
	tagDictionaryIndex int
}

const readGroupNone = -1

// recordPool is a plain sync.Pool standing in for the teacher's
// generated, unsafe-pointer-cast freelist, the same substitution
// sam/pool.go's recordPool makes for sam.Record: the code generator that
// produces that freelist isn't present in this module, but the purpose —
// cut GC pressure by reusing records in a streaming pipeline — is the
// same.
var recordPool = sync.Pool{
	New: func() interface{} { return new(CompressionRecord) },
}

// GetCompressionRecord returns a reset CompressionRecord from the pool:
// every field is zero except ReadGroup, which is readGroupNone.
func GetCompressionRecord() *CompressionRecord {
	r := recordPool.Get().(*CompressionRecord)
	*r = CompressionRecord{ReadGroup: readGroupNone}
	return r
}

// PutCompressionRecord returns r to the pool. Callers must not retain
// any reference to r or its slices afterward.
func PutCompressionRecord(r *CompressionRecord) {
	if r == nil {
		return
	}
	recordPool.Put(r)
}

func (r *CompressionRecord) isUnmapped() bool {
	const unmappedFlag = 0x4
	return r.Flags&unmappedFlag != 0
}

func (r *CompressionRecord) isPaired() bool {
	const pairedFlag = 0x1
	return r.Flags&pairedFlag != 0
}

// end returns the last reference position (1-based, inclusive) this
// record's alignment covers, derived from its read features. Unmapped
// records return AlignmentStart unchanged.
func (r *CompressionRecord) end() int32 {
	if r.isUnmapped() || r.AlignmentStart == 0 {
		return r.AlignmentStart
	}
	span := int32(0)
	for _, f := range r.Features {
		switch f.Code {
		case FeatureDeletion, FeatureRefSkip:
			span += int32(f.Length)
		}
	}
	// Matches/mismatches (every position consuming both read and
	// reference) are accounted for by counting read bases minus
	// soft-clip and insertion bases, which is exactly ReadLength minus
	// those features' lengths. Padding and hard clips consume no
	// reference and are not counted.
	refConsumedByRead := r.ReadLength
	for _, f := range r.Features {
		switch f.Code {
		case FeatureSoftClip:
			refConsumedByRead -= int32(len(f.SoftClipBases))
		case FeatureInsertion:
			refConsumedByRead -= int32(len(f.Bases))
		case FeatureInsertBase:
			refConsumedByRead--
		}
	}
	return r.AlignmentStart + refConsumedByRead + span - 1
}
