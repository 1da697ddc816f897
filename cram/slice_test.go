package cram

import "testing"

func pushAll(t *testing.T, b *SliceBuilder, recs []*CompressionRecord) []*Slice {
	t.Helper()
	var out []*Slice
	for _, r := range recs {
		s, err := b.Push(r)
		if err != nil {
			t.Fatalf("Push: %v", err)
		}
		if s != nil {
			out = append(out, s)
		}
	}
	if s := b.Finish(); s != nil {
		out = append(out, s)
	}
	return out
}

func syntheticMapped(seqID int32, start int32) *CompressionRecord {
	r := GetCompressionRecord()
	r.SequenceID = seqID
	r.AlignmentStart = start
	r.ReadLength = 10
	r.Name = []byte("r")
	return r
}

func syntheticUnmapped() *CompressionRecord {
	r := GetCompressionRecord()
	r.Flags = 0x4
	r.SequenceID = UnmappedSentinel
	r.Name = []byte("r")
	return r
}

// S1: one unmapped record; expect one container containing one
// unmapped-unplaced slice with one record and all-zero reference MD5.
func TestSliceS1SingleUnmapped(t *testing.T) {
	header := testHeader(t)
	source := newFakeReferenceSource(nil)
	strategy := NewEncodingStrategy()
	b := NewSliceBuilder(strategy, header, source, true)

	slices := pushAll(t, b, []*CompressionRecord{syntheticUnmapped()})
	if len(slices) != 1 {
		t.Fatalf("got %d slices, want 1", len(slices))
	}
	s := slices[0]
	if !s.Context.IsUnmappedUnplaced() {
		t.Errorf("context = %v, want UnmappedUnplaced", s.Context)
	}
	if len(s.Records) != 1 {
		t.Errorf("records = %d, want 1", len(s.Records))
	}
	var zero [16]byte
	if s.ReferenceMD5 != zero {
		t.Errorf("reference md5 = %x, want all-zero", s.ReferenceMD5)
	}
}

// S2: 1001 mapped records on contig 0, coordinate sorted, reads_per_slice
// = 1000; expect two slices, 1000 records then 1.
func TestSliceS2ReadsPerSliceBoundary(t *testing.T) {
	refs := []struct {
		Name   string
		Length int
	}{{"chr0", 1 << 20}}
	header := testHeader(t, refs...)
	source := newFakeReferenceSource(map[string]string{"chr0": repeat('A', 1<<20)})
	strategy := NewEncodingStrategy(OptReadsPerSlice(1000), OptSlicesPerContainer(1))
	b := NewSliceBuilder(strategy, header, source, true)

	var recs []*CompressionRecord
	for i := 0; i < 1001; i++ {
		recs = append(recs, syntheticMapped(0, int32(i+1)))
	}
	slices := pushAll(t, b, recs)
	if len(slices) != 2 {
		t.Fatalf("got %d slices, want 2", len(slices))
	}
	if len(slices[0].Records) != 1000 {
		t.Errorf("first slice has %d records, want 1000", len(slices[0].Records))
	}
	if len(slices[1].Records) != 1 {
		t.Errorf("second slice has %d records, want 1", len(slices[1].Records))
	}
	for _, s := range slices {
		for _, r := range s.Records {
			if r.SequenceID != 0 {
				t.Errorf("invariant 1 violated: mapped record sequence id %d != slice reference id 0", r.SequenceID)
			}
		}
	}
}

// S3: 500 mapped on contig 0, 500 mapped on contig 1, sorted,
// minimum_single_reference_slice_size=1000; expect one multi-ref slice of
// 1000 records (the single-ref run never reaches the threshold).
func TestSliceS3PromotesToMultiRefBelowThreshold(t *testing.T) {
	refs := []struct {
		Name   string
		Length int
	}{{"chr0", 1000}, {"chr1", 1000}}
	header := testHeader(t, refs...)
	source := newFakeReferenceSource(map[string]string{
		"chr0": repeat('A', 1000),
		"chr1": repeat('A', 1000),
	})
	strategy := NewEncodingStrategy(OptMinimumSingleReferenceSliceSize(1000))
	b := NewSliceBuilder(strategy, header, source, true)

	var recs []*CompressionRecord
	for i := 0; i < 500; i++ {
		recs = append(recs, syntheticMapped(0, int32(i+1)))
	}
	for i := 0; i < 500; i++ {
		recs = append(recs, syntheticMapped(1, int32(i+1)))
	}
	slices := pushAll(t, b, recs)
	if len(slices) != 1 {
		t.Fatalf("got %d slices, want 1", len(slices))
	}
	s := slices[0]
	if !s.Context.IsMultiRef() {
		t.Errorf("context = %v, want MultiRef", s.Context)
	}
	if len(s.Records) != 1000 {
		t.Errorf("records = %d, want 1000", len(s.Records))
	}
}

// S4: 2000 records on contig 0 followed by 2000 unmapped, sorted; expect
// one single-ref slice then one unmapped-unplaced slice (each its own
// container, since the reference-context change forces an emit).
func TestSliceS4MappedThenUnmapped(t *testing.T) {
	refs := []struct {
		Name   string
		Length int
	}{{"chr0", 1 << 20}}
	header := testHeader(t, refs...)
	source := newFakeReferenceSource(map[string]string{"chr0": repeat('A', 1<<20)})
	strategy := NewEncodingStrategy()
	b := NewSliceBuilder(strategy, header, source, true)

	var recs []*CompressionRecord
	for i := 0; i < 2000; i++ {
		recs = append(recs, syntheticMapped(0, int32(i+1)))
	}
	for i := 0; i < 2000; i++ {
		recs = append(recs, syntheticUnmapped())
	}
	slices := pushAll(t, b, recs)
	if len(slices) != 2 {
		t.Fatalf("got %d slices, want 2", len(slices))
	}
	if !slices[0].Context.IsSingleRef() || len(slices[0].Records) != 2000 {
		t.Errorf("first slice = %v/%d records, want SingleRef/2000", slices[0].Context, len(slices[0].Records))
	}
	if !slices[1].Context.IsUnmappedUnplaced() || len(slices[1].Records) != 2000 {
		t.Errorf("second slice = %v/%d records, want UnmappedUnplaced/2000", slices[1].Context, len(slices[1].Records))
	}
}

// Unsorted input has no coordinate signal to promote a short single-ref
// run early, so a MultiRef run must accumulate all the way to
// reads_per_slice before emitting, not stop at the (much lower)
// minimum_single_reference_slice_size the sorted case uses.
func TestSliceMultiRefUnsortedEmitsAtReadsPerSliceNotPromotionFloor(t *testing.T) {
	refs := []struct {
		Name   string
		Length int
	}{{"chr0", 100}, {"chr1", 100}}
	header := testHeader(t, refs...)
	source := newFakeReferenceSource(map[string]string{
		"chr0": repeat('A', 100),
		"chr1": repeat('A', 100),
	})
	strategy := NewEncodingStrategy(OptMinimumSingleReferenceSliceSize(2), OptReadsPerSlice(5))
	b := NewSliceBuilder(strategy, header, source, false)

	var recs []*CompressionRecord
	for i := 0; i < 6; i++ {
		contig := int32(i % 2)
		recs = append(recs, syntheticMapped(contig, 1))
	}
	slices := pushAll(t, b, recs)
	if len(slices) != 2 {
		t.Fatalf("got %d slices, want 2", len(slices))
	}
	if !slices[0].Context.IsMultiRef() {
		t.Errorf("first slice context = %v, want MultiRef", slices[0].Context)
	}
	if len(slices[0].Records) != 5 {
		t.Errorf("first slice has %d records, want 5 (reads_per_slice, not the sorted-case promotion floor of 2)", len(slices[0].Records))
	}
}

// Open Question 1 (spec section 9): a mapped record following unmapped
// ones under coordinate sort is forbidden, not silently promoted.
func TestSliceRejectsOutOfOrderMappedAfterUnmappedWhenSorted(t *testing.T) {
	refs := []struct {
		Name   string
		Length int
	}{{"chr0", 100}}
	header := testHeader(t, refs...)
	source := newFakeReferenceSource(map[string]string{"chr0": repeat('A', 100)})
	strategy := NewEncodingStrategy()
	b := NewSliceBuilder(strategy, header, source, true)

	if _, err := b.Push(syntheticUnmapped()); err != nil {
		t.Fatalf("Push(unmapped): %v", err)
	}
	_, err := b.Push(syntheticMapped(0, 1))
	if err == nil {
		t.Fatalf("Push(mapped after unmapped, sorted): want OutOfOrder error, got nil")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != OutOfOrder {
		t.Errorf("err = %v, want *Error{Kind: OutOfOrder}", err)
	}
}
