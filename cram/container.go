package cram

// Container owns a compression header, an ordered list of slices, and
// the book-keeping fields stamped at serialization (spec section 3).
type Container struct {
	Header         *CompressionHeader
	Slices         []*Slice
	Context        ReferenceContext
	ByteOffset     int64
	RecordCounterBase int64
	RecordCount    int64
}

// ContainerBuilder accumulates slices until a container-emit condition
// holds (spec section 4.5).
type ContainerBuilder struct {
	strategy       *EncodingStrategy
	factory        *CompressionHeaderFactory
	globalRecordCounter int64

	slices  []*Slice
	context ReferenceContext
}

// NewContainerBuilder constructs a builder bound to strategy.
func NewContainerBuilder(strategy *EncodingStrategy) *ContainerBuilder {
	return &ContainerBuilder{
		strategy: strategy,
		factory:  NewCompressionHeaderFactory(strategy),
		context:  Uninitialized,
	}
}

// PushSlice offers a just-closed slice to the container builder. It
// returns a finished Container when the slice-push triggers a
// container-emit condition (spec section 4.5); otherwise it returns nil
// and the slice is held for the next container.
func (b *ContainerBuilder) PushSlice(s *Slice, nextRecordSequenceID int32, haveNext bool) *Container {
	b.slices = append(b.slices, s)
	if b.context.IsUninitialized() {
		b.context = s.Context
	} else {
		b.context = joinContext([]ReferenceContext{b.context, s.Context})
	}

	emit := false
	switch {
	case len(b.slices) >= b.strategy.SlicesPerContainer:
		emit = true
	case s.Context.IsMultiRef():
		emit = true
	case haveNext && b.context.IsSingleRef() && nextRecordSequenceID != b.context.SequenceID():
		emit = true
	}
	if !emit {
		return nil
	}
	return b.flush()
}

// Finish flushes any remaining slice as a final container. Returns nil
// if there is nothing to flush (spec section 8, boundary behavior 10).
func (b *ContainerBuilder) Finish() *Container {
	if len(b.slices) == 0 {
		return nil
	}
	return b.flush()
}

func (b *ContainerBuilder) flush() *Container {
	var allRecords []*CompressionRecord
	for _, s := range b.slices {
		allRecords = append(allRecords, s.Records...)
	}
	header := b.factory.Build(allRecords)

	c := &Container{
		Header:            header,
		Slices:            b.slices,
		Context:           b.context,
		RecordCounterBase: b.globalRecordCounter,
		RecordCount:       int64(len(allRecords)),
	}
	b.globalRecordCounter += c.RecordCount

	b.slices = nil
	b.context = Uninitialized
	return c
}
