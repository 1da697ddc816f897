package sam_test

import (
	"testing"

	"github.com/Schaudge/cram/htstestutil"
	"github.com/Schaudge/cram/sam"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/testutil/h"
)

func init() {
	htstestutil.RegisterSAMRecordComparator()
}

func newTestRecord(t *testing.T, name string, pos int) *sam.Record {
	t.Helper()
	ref, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	if err != nil {
		t.Fatalf("sam.NewReference: %v", err)
	}
	ops, err := sam.ParseCigar([]byte("4M"))
	if err != nil {
		t.Fatalf("sam.ParseCigar: %v", err)
	}
	r, err := sam.NewRecord(name, ref, nil, pos, -1, 0, 60, ops, []byte("ACGT"), []byte{30, 30, 30, 30}, nil)
	if err != nil {
		t.Fatalf("sam.NewRecord: %v", err)
	}
	return r
}

// Equality of two records is compared through the registered comparator
// rather than reflect.DeepEqual, so a slice of sam.Record values can be matched
// with h.ElementsAre the same way the rest of this pack compares
// hts-shaped values.
func TestRecordsCompareEqualThroughRegisteredComparator(t *testing.T) {
	got := []sam.Record{*newTestRecord(t, "read1", 10)}
	want := *newTestRecord(t, "read1", 10)
	expect.That(t, got, h.ElementsAre(want))
}

func TestRecordsDifferingByPositionCompareUnequal(t *testing.T) {
	a := newTestRecord(t, "read1", 10)
	b := newTestRecord(t, "read1", 11)
	if a.Equal(b) {
		t.Errorf("records at different positions must not compare equal")
	}
}
