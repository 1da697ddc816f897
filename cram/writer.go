package cram

import (
	"io"

	"github.com/Schaudge/cram/sam"
)

// Writer drives the full write pipeline: record converter, mate
// resolver, slice builder, container builder, and serializer. It is the
// single entry point a caller pushes records through (spec section 2).
//
// Writer is not safe for concurrent use; the pipeline is single-threaded
// and streaming (spec section 5).
type Writer struct {
	strategy *EncodingStrategy
	header   *sam.Header

	converter     *RecordConverter
	mateResolver  *MateResolver
	sliceBuilder  *SliceBuilder
	containerBldr *ContainerBuilder
	serializer    *Serializer

	pendingSliceRecords []*CompressionRecord
	closed              bool
}

// NewWriter begins a write session against w, targeting the given CRAM
// version, sequence dictionary, reference source, and encoding
// strategy. coordinateSorted must accurately reflect the input's sort
// order: it governs both the slice-emit decision table (section 4.4)
// and mate-resolution behavior (section 4.3).
func NewWriter(w io.Writer, version FileVersion, header *sam.Header, source ReferenceSource, strategy *EncodingStrategy, coordinateSorted bool, fileID [20]byte) (*Writer, error) {
	if header == nil || source == nil || strategy == nil {
		return nil, newError(InvalidArgument, "NewWriter", nil)
	}
	region := NewReferenceRegion(source)
	wr := &Writer{
		strategy:      strategy,
		header:        header,
		converter:     NewRecordConverter(header, region, strategy),
		mateResolver:  NewMateResolver(coordinateSorted),
		sliceBuilder:  NewSliceBuilder(strategy, header, source, coordinateSorted),
		containerBldr: NewContainerBuilder(strategy),
		serializer:    NewSerializer(w, version),
	}
	if err := wr.serializer.WriteFileHeader(fileID); err != nil {
		return nil, err
	}
	return wr, nil
}

// PushRecord converts and accumulates one aligned record. It may write
// zero or one finished container to the output stream (spec section 2).
func (wr *Writer) PushRecord(rec *sam.Record) error {
	if wr.closed {
		return newError(SessionClosed, "PushRecord", nil)
	}
	cr, err := wr.converter.Convert(rec)
	if err != nil {
		return err
	}

	finishedSlice, err := wr.sliceBuilder.Push(cr)
	if err != nil {
		return err
	}
	if finishedSlice == nil {
		return nil
	}
	return wr.emitSlice(finishedSlice, cr.SequenceID, true)
}

// emitSlice resolves mates within a just-closed slice, then offers it to
// the container builder, writing out a container if one becomes
// complete.
func (wr *Writer) emitSlice(s *Slice, nextSequenceID int32, haveNext bool) error {
	wr.mateResolver.Resolve(s.Records)
	wr.converter.NoteSliceEmitted()
	container := wr.containerBldr.PushSlice(s, nextSequenceID, haveNext)
	if container == nil {
		return nil
	}
	wr.converter.NoteContainerEmitted()
	return wr.serializer.WriteContainer(container)
}

// Finish flushes any in-progress slice and container, then emits the
// end-of-file marker. After Finish returns, the session is closed and
// further PushRecord calls fail with SessionClosed (spec section 5,
// section 8 boundary behaviors 9 and 10).
func (wr *Writer) Finish() error {
	if wr.closed {
		return newError(SessionClosed, "Finish", nil)
	}
	wr.closed = true

	if s := wr.sliceBuilder.Finish(); s != nil {
		if err := wr.emitSlice(s, 0, false); err != nil {
			return err
		}
	}
	if c := wr.containerBldr.Finish(); c != nil {
		if err := wr.serializer.WriteContainer(c); err != nil {
			return err
		}
	}
	return wr.serializer.WriteEOFMarker()
}

// Abort closes the session without flushing any in-progress slice or
// container; the output stream's last fully emitted container remains
// the final valid data (spec section 5, section 7).
func (wr *Writer) Abort() {
	wr.closed = true
}
