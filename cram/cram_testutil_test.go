package cram

import (
	"strings"
	"testing"

	"github.com/Schaudge/cram/sam"
)

// fakeReferenceSource is an in-memory ReferenceSource for tests, avoiding
// any dependency on FastaReferenceSource's file-parsing path.
type fakeReferenceSource struct {
	contigs map[string][]byte
}

func newFakeReferenceSource(contigs map[string]string) *fakeReferenceSource {
	m := make(map[string][]byte, len(contigs))
	for name, seq := range contigs {
		m[name] = []byte(seq)
	}
	return &fakeReferenceSource{contigs: m}
}

func (f *fakeReferenceSource) BasesForContig(name string) ([]byte, bool) {
	b, ok := f.contigs[name]
	return b, ok
}

func (f *fakeReferenceSource) BasesForRange(name string, offset, length int) ([]byte, bool) {
	b, ok := f.contigs[name]
	if !ok {
		return nil, false
	}
	if offset > len(b) {
		offset = len(b)
	}
	end := offset + length
	if end > len(b) {
		end = len(b)
	}
	return b[offset:end], true
}

func (f *fakeReferenceSource) ContigLength(name string) (int, bool) {
	b, ok := f.contigs[name]
	return len(b), ok
}

// testHeader builds a Header whose sequence dictionary is exactly refs, in
// order; with no refs the dictionary is empty.
func testHeader(t *testing.T, refs ...struct {
	Name   string
	Length int
}) *sam.Header {
	t.Helper()
	var rs []*sam.Reference
	for _, r := range refs {
		ref, err := sam.NewReference(r.Name, "", "", r.Length, nil, nil)
		if err != nil {
			t.Fatalf("sam.NewReference: %v", err)
		}
		rs = append(rs, ref)
	}
	h, err := sam.NewHeader(nil, rs)
	if err != nil {
		t.Fatalf("sam.NewHeader: %v", err)
	}
	return h
}

// mappedRecord builds a minimally-populated mapped, coordinate-sorted
// record against ref at 0-based pos with the given bases (all matches
// against the reference unless overridden by the caller afterward).
func mappedRecord(t *testing.T, name string, ref *sam.Reference, pos int, cigar string, bases string) *sam.Record {
	t.Helper()
	ops, err := sam.ParseCigar([]byte(cigar))
	if err != nil {
		t.Fatalf("ParseCigar(%q): %v", cigar, err)
	}
	qual := make([]byte, len(bases))
	for i := range qual {
		qual[i] = 30
	}
	r, err := sam.NewRecord(name, ref, nil, pos, -1, 0, 60, ops, []byte(bases), qual, nil)
	if err != nil {
		t.Fatalf("sam.NewRecord: %v", err)
	}
	return r
}

func unmappedRecord(t *testing.T, name string) *sam.Record {
	t.Helper()
	r, err := sam.NewRecord(name, nil, nil, -1, -1, 0, 0, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("sam.NewRecord: %v", err)
	}
	r.Flags |= 0x4
	return r
}

func repeat(base byte, n int) string {
	return strings.Repeat(string(base), n)
}
