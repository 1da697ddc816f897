package cram

import (
	"testing"
)

// S5 from spec section 8: CIGAR 3M1I3M, a substitution at read position 2
// (A on the reference, G in the read), expects a Substitution feature at
// pos 2 and an InsertBase feature at pos 4.
func TestConvertDerivesFeaturesForSubstitutionAndInsertion(t *testing.T) {
	refs := []struct {
		Name   string
		Length int
	}{{"chr0", 100}}
	header := testHeader(t, refs...)
	ref := header.Reference(0)

	source := newFakeReferenceSource(map[string]string{"chr0": "AAAAAAAAAA"})
	region := NewReferenceRegion(source)
	if err := region.FetchContig(0, "chr0"); err != nil {
		t.Fatalf("FetchContig: %v", err)
	}

	// read bases: A G A | T | A A A  (3M1I3M, 1-based alignment start 1)
	rec := mappedRecord(t, "r1", ref, 0, "3M1I3M", "AGA"+"T"+"AAA")
	converter := NewRecordConverter(header, region, NewEncodingStrategy())
	cr, err := converter.Convert(rec)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	var subs, inserts []ReadFeature
	for _, f := range cr.Features {
		switch f.Code {
		case FeatureSubstitution:
			subs = append(subs, f)
		case FeatureInsertBase:
			inserts = append(inserts, f)
		}
	}
	if len(subs) != 1 {
		t.Fatalf("want 1 substitution feature, got %d (%v)", len(subs), cr.Features)
	}
	if subs[0].Pos != 2 || subs[0].RefBase != 'A' || subs[0].ReadBase != 'G' {
		t.Errorf("substitution = %+v, want pos=2 ref=A read=G", subs[0])
	}
	if len(inserts) != 1 {
		t.Fatalf("want 1 insert-base feature, got %d (%v)", len(inserts), cr.Features)
	}
	if inserts[0].Pos != 4 {
		t.Errorf("insert feature pos = %d, want 4", inserts[0].Pos)
	}
}

// Invariant 5: the stamped substitution code must equal the matrix lookup
// for that (ref, read) pair once the container's compression header has
// been built.
func TestSubstitutionMatrixStampsLookupCode(t *testing.T) {
	feats := []ReadFeature{
		substitution(1, 'A', 'G'),
		substitution(5, 'A', 'G'),
		substitution(9, 'A', 'C'),
	}
	matrix := buildSubstitutionMatrix(feats)
	matrix.stampCodes(feats)

	for _, f := range feats {
		want, ok := matrix.Lookup(f.RefBase, f.ReadBase)
		if !ok {
			t.Fatalf("Lookup(%c,%c) reported not-ok", f.RefBase, f.ReadBase)
		}
		if f.SubCode != want {
			t.Errorf("stamped code %d != matrix lookup %d for %c->%c", f.SubCode, want, f.RefBase, f.ReadBase)
		}
	}
	// A->G occurs twice, A->C once: A->G must win code 0 (most frequent).
	codeAG, _ := matrix.Lookup('A', 'G')
	codeAC, _ := matrix.Lookup('A', 'C')
	if codeAG != 0 {
		t.Errorf("most frequent substitution A->G got code %d, want 0", codeAG)
	}
	if codeAC == codeAG {
		t.Errorf("distinct substitutions must get distinct codes")
	}
}

// Boundary behavior 11: an alignment extending past the end of the
// reference contig treats the overhang as 'N' for substitution comparison.
// Both ref='N' and a read base in ACGTN satisfy isACGTN, so the overhanging
// base is recorded as a Substitution against 'N'.
func TestConvertTreatsOverhangingReferenceAsN(t *testing.T) {
	refs := []struct {
		Name   string
		Length int
	}{{"chr0", 5}}
	header := testHeader(t, refs...)
	ref := header.Reference(0)

	source := newFakeReferenceSource(map[string]string{"chr0": "AAAAA"})
	region := NewReferenceRegion(source)
	if err := region.FetchContig(0, "chr0"); err != nil {
		t.Fatalf("FetchContig: %v", err)
	}

	// Alignment start at position 4 (1-based), 3M: covers ref positions
	// 4,5,6 — position 6 is past the 5-base contig and must read as 'N'.
	rec := mappedRecord(t, "r1", ref, 3, "3M", "AAA")
	converter := NewRecordConverter(header, region, NewEncodingStrategy())
	cr, err := converter.Convert(rec)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	var last *ReadFeature
	for i := range cr.Features {
		if cr.Features[i].Pos == 3 {
			last = &cr.Features[i]
		}
	}
	if last == nil {
		t.Fatalf("expected a feature at read pos 3 (overhanging base vs N), got %v", cr.Features)
	}
	if last.Code != FeatureSubstitution || last.RefBase != 'N' {
		t.Errorf("overhanging base feature = %+v, want Substitution against ref=N", *last)
	}
}
