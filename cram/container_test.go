package cram

import "testing"

// Invariant 2: for every container containing more than one slice, all
// slices share the same single reference id.
func TestContainerBuilderJoinsSingleRefSlices(t *testing.T) {
	strategy := NewEncodingStrategy(OptSlicesPerContainer(2))
	b := NewContainerBuilder(strategy)

	s1 := NewSlice(SingleRefContext(3))
	s1.Append(syntheticMapped(3, 1))
	s1.Finalize(nil)
	s2 := NewSlice(SingleRefContext(3))
	s2.Append(syntheticMapped(3, 11))
	s2.Finalize(nil)

	if c := b.PushSlice(s1, 3, true); c != nil {
		t.Fatalf("first PushSlice returned a container early: %+v", c)
	}
	c := b.PushSlice(s2, 0, false)
	if c == nil {
		t.Fatalf("second PushSlice (SlicesPerContainer reached) returned no container")
	}
	if !c.Context.IsSingleRef() || c.Context.SequenceID() != 3 {
		t.Errorf("container context = %v, want SingleRef(3)", c.Context)
	}
	if len(c.Slices) != 2 {
		t.Errorf("container has %d slices, want 2", len(c.Slices))
	}
}

// Invariant 3: the global record counter after emitting container N equals
// the sum of records in containers 1..N.
func TestContainerBuilderGlobalRecordCounterAccumulates(t *testing.T) {
	strategy := NewEncodingStrategy(OptSlicesPerContainer(1))
	b := NewContainerBuilder(strategy)

	s1 := NewSlice(SingleRefContext(0))
	for i := 0; i < 5; i++ {
		s1.Append(syntheticMapped(0, int32(i+1)))
	}
	s1.Finalize(nil)
	c1 := b.PushSlice(s1, 0, true)
	if c1 == nil {
		t.Fatalf("expected a container after one slice with SlicesPerContainer=1")
	}
	if c1.RecordCounterBase != 0 || c1.RecordCount != 5 {
		t.Errorf("c1 counter base/count = %d/%d, want 0/5", c1.RecordCounterBase, c1.RecordCount)
	}

	s2 := NewSlice(SingleRefContext(0))
	for i := 0; i < 3; i++ {
		s2.Append(syntheticMapped(0, int32(i+1)))
	}
	s2.Finalize(nil)
	c2 := b.PushSlice(s2, 0, false)
	if c2 == nil {
		t.Fatalf("expected a container after second slice")
	}
	if c2.RecordCounterBase != 5 || c2.RecordCount != 3 {
		t.Errorf("c2 counter base/count = %d/%d, want 5/3", c2.RecordCounterBase, c2.RecordCount)
	}
}

// Boundary behavior 10: an input whose last record is mapped still emits a
// final container on Finish().
func TestContainerBuilderFinishFlushesTrailingSlice(t *testing.T) {
	strategy := NewEncodingStrategy(OptSlicesPerContainer(2))
	b := NewContainerBuilder(strategy)

	s := NewSlice(SingleRefContext(0))
	s.Append(syntheticMapped(0, 1))
	s.Finalize(nil)
	if c := b.PushSlice(s, 0, false); c != nil {
		t.Fatalf("PushSlice below SlicesPerContainer with no reference-context change should not have emitted yet")
	}

	c := b.Finish()
	if c == nil {
		t.Fatalf("Finish() returned nil, want a flushed container")
	}
	if len(c.Slices) != 1 || len(c.Slices[0].Records) != 1 {
		t.Errorf("flushed container has wrong shape: %+v", c)
	}
	if b.Finish() != nil {
		t.Errorf("second Finish() call should return nil (nothing left to flush)")
	}
}
