package cram

import "crypto/md5"

// SliceDecision is the outcome of the slice-emit decision table (spec
// section 4.4): accumulate the pushed record under an updated context,
// accumulate it after promoting the current slice to MultiRef, or close
// the current slice first.
type SliceDecision int

const (
	DecisionUpdateContext SliceDecision = iota
	DecisionEmitNow
	DecisionPromoteToMultiRef
)

const unmappedSentinelID = int32(UnmappedSentinel)

// sliceEmitDecision implements the table in spec section 4.4. sorted
// reports whether the incoming stream is coordinate-sorted; nextID is
// the next pushed record's sequence id (unmappedSentinelID for
// unplaced).
func sliceEmitDecision(current ReferenceContext, nextID int32, countSoFar int, strategy *EncodingStrategy, sorted bool) (SliceDecision, ReferenceContext, error) {
	switch {
	case current.IsUninitialized():
		return DecisionUpdateContext, newContextFor(nextID), nil

	case current.IsUnmappedUnplaced():
		if nextID == unmappedSentinelID {
			if countSoFar >= strategy.ReadsPerSlice {
				return DecisionEmitNow, current, nil
			}
			return DecisionUpdateContext, current, nil
		}
		// mapped record following unmapped: sorted input violates order,
		// unsorted input promotes to MultiRef (or emits if full).
		if countSoFar >= strategy.ReadsPerSlice {
			return DecisionEmitNow, current, nil
		}
		return DecisionPromoteToMultiRef, MultiRefContext, nil

	case current.IsMultiRef():
		// Sorted input emits a MultiRef run as soon as it has grown past
		// the single-reference promotion floor; unsorted input has no
		// such signal available and instead fills to the ordinary
		// per-slice target (spec section 4.4).
		threshold := strategy.ReadsPerSlice
		if sorted {
			threshold = strategy.MinimumSingleReferenceSliceSize
		}
		if countSoFar >= threshold {
			return DecisionEmitNow, current, nil
		}
		return DecisionUpdateContext, current, nil

	case current.IsSingleRef():
		if nextID == current.SequenceID() {
			if countSoFar >= strategy.ReadsPerSlice {
				return DecisionEmitNow, current, nil
			}
			return DecisionUpdateContext, current, nil
		}
		if countSoFar >= strategy.MinimumSingleReferenceSliceSize {
			return DecisionEmitNow, current, nil
		}
		return DecisionPromoteToMultiRef, MultiRefContext, nil
	}
	return DecisionEmitNow, current, nil
}

func newContextFor(id int32) ReferenceContext {
	if id == unmappedSentinelID {
		return UnmappedUnplacedContext
	}
	return SingleRefContext(id)
}

// isOutOfOrderUnmappedThenMapped reports whether pushing a mapped record
// right after unmapped ones under a coordinate-sorted assumption
// violates sort order (spec section 4.4's OutOfOrder row).
func isOutOfOrderUnmappedThenMapped(current ReferenceContext, nextID int32, sorted bool) bool {
	return sorted && current.IsUnmappedUnplaced() && nextID != unmappedSentinelID
}

// Slice owns a run of compression-records sharing a reference context
// (spec section 3).
type Slice struct {
	Context        ReferenceContext
	Records        []*CompressionRecord
	AlignmentStart int32
	AlignmentSpan  int32
	ReferenceMD5   [16]byte
	RecordIndexBase int64

	// ByteOffset and the block content ids are patched in at
	// serialization time.
	ByteOffset int64
}

// NewSlice starts an empty slice under the given context.
func NewSlice(ctx ReferenceContext) *Slice {
	return &Slice{Context: ctx}
}

// Append adds r to the slice, assigning its slice-local sequential
// index.
func (s *Slice) Append(r *CompressionRecord) {
	r.SliceIndex = len(s.Records)
	s.Records = append(s.Records, r)
}

// Finalize computes the alignment span and reference MD5 per spec
// section 4.4's slice-finalization rule. region must already cover the
// finalized span when Context.IsSingleRef(); pass nil otherwise.
func (s *Slice) Finalize(region *ReferenceRegion) {
	if s.Context.IsMultiRef() || s.Context.IsUnmappedUnplaced() {
		s.ReferenceMD5 = [16]byte{}
	}
	minStart, maxEnd := int32(0), int32(0)
	first := true
	for _, r := range s.Records {
		if r.isUnmapped() || r.AlignmentStart == 0 {
			continue
		}
		end := r.end()
		if first {
			minStart, maxEnd = r.AlignmentStart, end
			first = false
			continue
		}
		if r.AlignmentStart < minStart {
			minStart = r.AlignmentStart
		}
		if end > maxEnd {
			maxEnd = end
		}
	}
	if first {
		// No mapped records: span is degenerate.
		s.AlignmentStart = 0
		s.AlignmentSpan = 0
		return
	}
	s.AlignmentStart = minStart
	s.AlignmentSpan = maxEnd - minStart + 1

	if s.Context.IsSingleRef() && region != nil {
		buf := make([]byte, 0, s.AlignmentSpan)
		for p := int(s.AlignmentStart - 1); p < int(s.AlignmentStart-1+s.AlignmentSpan); p++ {
			buf = append(buf, region.BaseAt(p))
		}
		s.ReferenceMD5 = md5.Sum(buf)
	}
}
