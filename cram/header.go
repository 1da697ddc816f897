package cram

import "bytes"

// externalID assignment: the fixed data series occupy low ids, one per
// tag id occupies subsequent ids keyed by its 3-byte identifier.
const (
	externalIDBases int32 = iota
	externalIDQualityScores
	externalIDReadNames
	externalIDSoftClip
	externalIDInsertion
	externalIDFirstTag
)

// CompressionHeader is the per-container factory output: the
// substitution matrix, the tag-id dictionary, the chosen per-tag
// encoding, and the compressed external blocks for every data series
// (spec section 3, section 4.6). One CompressionHeaderFactory serves
// every container of a session; it resets all state at the start of
// build so successive containers never leak encoding choices (spec
// section 4.6).
type CompressionHeader struct {
	Matrix     *SubstitutionMatrix
	TagDict    *TagDictionary
	TagEncodings map[[3]byte]TagEncoding

	ExternalBlocks map[int32]*Block
}

// CompressionHeaderFactory builds one CompressionHeader per container.
// Its scratch buffer (the per-tag byte accumulators) is reused between
// builds but reset at the start of each one (spec section 5).
type CompressionHeaderFactory struct {
	strategy *EncodingStrategy

	tagBytes map[[3]byte][][]byte // tag id -> raw value per occurrence, this build only
	tagType  map[[3]byte]byte
}

// NewCompressionHeaderFactory constructs a factory bound to strategy.
func NewCompressionHeaderFactory(strategy *EncodingStrategy) *CompressionHeaderFactory {
	return &CompressionHeaderFactory{strategy: strategy}
}

// Build implements the compression-header factory contract: given every
// record destined for one container, produce its CompressionHeader.
func (f *CompressionHeaderFactory) Build(records []*CompressionRecord) *CompressionHeader {
	f.reset()

	var allFeatures []ReadFeature
	dictBuilder := newTagDictBuilder()

	for _, r := range records {
		allFeatures = append(allFeatures, r.Features...)
		dictBuilder.add(r)
		for _, t := range r.Tags {
			key := t.ID
			f.tagBytes[key] = append(f.tagBytes[key], t.Value)
			f.tagType[key] = key[2]
		}
	}

	matrix := buildSubstitutionMatrix(allFeatures)
	for _, r := range records {
		matrix.stampCodes(r.Features)
	}

	header := &CompressionHeader{
		Matrix:         matrix,
		TagDict:        dictBuilder.build(),
		TagEncodings:   make(map[[3]byte]TagEncoding),
		ExternalBlocks: make(map[int32]*Block),
	}

	tagIDs := make([][3]byte, 0, len(f.tagBytes))
	for key := range f.tagBytes {
		tagIDs = append(tagIDs, key)
	}
	sortTagIDs(tagIDs)

	nextID := externalIDFirstTag
	for _, key := range tagIDs {
		values := f.tagBytes[key]
		enc := chooseTagEncoding(f.tagType[key], values, nextID)
		header.TagEncodings[key] = enc
		var concatenated []byte
		for _, v := range values {
			concatenated = append(concatenated, v...)
			if enc.Kind == EncodingStopByte {
				concatenated = append(concatenated, enc.StopByte)
			}
		}
		header.ExternalBlocks[nextID] = NewCompressedBlock(ContentExternal, nextID, concatenated)
		nextID++
	}

	header.ExternalBlocks[externalIDBases] = NewCompressedBlock(ContentExternal, externalIDBases, concatSeries(records, seriesBases))
	header.ExternalBlocks[externalIDQualityScores] = NewCompressedBlock(ContentExternal, externalIDQualityScores, concatSeries(records, seriesQuals))
	header.ExternalBlocks[externalIDReadNames] = NewCompressedBlock(ContentExternal, externalIDReadNames, concatSeries(records, seriesNames))

	return header
}

func (f *CompressionHeaderFactory) reset() {
	if f.tagBytes == nil {
		f.tagBytes = make(map[[3]byte][][]byte)
		f.tagType = make(map[[3]byte]byte)
		return
	}
	for k := range f.tagBytes {
		delete(f.tagBytes, k)
	}
	for k := range f.tagType {
		delete(f.tagType, k)
	}
}

// sortTagIDs orders tag ids lexicographically so external-id assignment
// and block serialization are deterministic across runs of the same
// input, independent of Go's randomized map iteration order (spec
// section 8's re-encode-is-byte-identical property).
func sortTagIDs(ids [][3]byte) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && bytes.Compare(ids[j][:], ids[j-1][:]) < 0; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

type seriesKind int

const (
	seriesBases seriesKind = iota
	seriesQuals
	seriesNames
)

func concatSeries(records []*CompressionRecord, kind seriesKind) []byte {
	var buf []byte
	for _, r := range records {
		switch kind {
		case seriesBases:
			buf = append(buf, r.Bases...)
		case seriesQuals:
			buf = append(buf, r.Quals...)
		case seriesNames:
			buf = append(buf, r.Name...)
			buf = append(buf, 0)
		}
	}
	return buf
}
