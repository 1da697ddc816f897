package cram

import (
	"github.com/Schaudge/cram/sam"
	"v.io/x/lib/vlog"
)

// SliceBuilder accumulates compression-records into slices, applying the
// slice-emit decision table of spec section 4.4. It owns the reference
// region cache, which is never shared across threads (spec section 4.1,
// section 5).
type SliceBuilder struct {
	strategy *EncodingStrategy
	header   *sam.Header
	region   *ReferenceRegion
	sorted   bool

	current     *Slice
	context     ReferenceContext
	countInRun  int
}

// NewSliceBuilder constructs a builder over the given sequence
// dictionary and reference source.
func NewSliceBuilder(strategy *EncodingStrategy, header *sam.Header, source ReferenceSource, sorted bool) *SliceBuilder {
	return &SliceBuilder{
		strategy: strategy,
		header:   header,
		region:   NewReferenceRegion(source),
		sorted:   sorted,
		context:  Uninitialized,
	}
}

// Push offers one converted record to the slice builder. It returns a
// finished Slice when the push closes one (the caller must then start
// accumulating the pushed record into the next slice, which Push has
// already done); otherwise it returns nil and r has been appended to the
// in-progress slice.
func (b *SliceBuilder) Push(r *CompressionRecord) (*Slice, error) {
	nextID := r.SequenceID
	if r.isUnmapped() {
		nextID = unmappedSentinelID
	}

	if isOutOfOrderUnmappedThenMapped(b.context, nextID, b.sorted) {
		return nil, newError(OutOfOrder, recordLabel(r), nil)
	}

	decision, newCtx, err := sliceEmitDecision(b.context, nextID, b.countInRun, b.strategy, b.sorted)
	if err != nil {
		return nil, err
	}

	var finished *Slice
	switch decision {
	case DecisionEmitNow:
		finished = b.closeCurrent()
		b.context = newContextFor(nextID)
		b.current = NewSlice(b.context)
		b.countInRun = 0
	case DecisionPromoteToMultiRef:
		vlog.Infof("cram: slice builder: promoting slice to MultiRef at record %s (run size %d below minimum_single_reference_slice_size)", recordLabel(r), b.countInRun)
		b.context = MultiRefContext
		if b.current == nil {
			b.current = NewSlice(b.context)
		} else {
			b.current.Context = b.context
		}
	case DecisionUpdateContext:
		b.context = newCtx
		if b.current == nil {
			b.current = NewSlice(b.context)
		} else {
			b.current.Context = b.context
		}
	}

	if err := b.maybeFetchReference(r); err != nil {
		return finished, err
	}

	b.current.Append(r)
	b.countInRun++
	return finished, nil
}

// Finish closes any in-progress slice.
func (b *SliceBuilder) Finish() *Slice {
	return b.closeCurrent()
}

func (b *SliceBuilder) closeCurrent() *Slice {
	if b.current == nil || len(b.current.Records) == 0 {
		return nil
	}
	s := b.current
	region := b.region
	if !s.Context.IsSingleRef() {
		region = nil
	}
	s.Finalize(region)
	b.current = nil
	return s
}

// maybeFetchReference ensures the region cache covers r's alignment
// before features referencing it are trusted; mapped records need the
// full contig fetched so later slice finalization can compute the
// reference MD5 (spec section 4.1).
func (b *SliceBuilder) maybeFetchReference(r *CompressionRecord) error {
	if r.isUnmapped() {
		return nil
	}
	ref := b.header.Reference(int(r.SequenceID))
	if ref == nil {
		return newError(UnknownContig, recordLabel(r), nil)
	}
	return b.region.FetchContig(r.SequenceID, ref.Name())
}

func recordLabel(r *CompressionRecord) string {
	if len(r.Name) == 0 {
		return "<unnamed>"
	}
	return string(r.Name)
}
