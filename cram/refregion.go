package cram

import (
	"github.com/pkg/errors"
	"v.io/x/lib/vlog"
)

// ReferenceSource is the consumed reference-fetching capability (section
// 6). Implementations may return (nil, false) only when the contig is
// genuinely absent from the backing FASTA; returning fewer bases than
// requested from BasesForRange is permitted and indicates the contig is
// shorter than requested. Modeled on encoding/fasta.Fasta's shape: a
// small interface, no assumed ownership of the caller's goroutine.
type ReferenceSource interface {
	// BasesForContig returns every base of the named contig.
	BasesForContig(name string) (bases []byte, ok bool)
	// BasesForRange returns bases [offset, offset+length) of the named
	// contig, zero-based.
	BasesForRange(name string, offset, length int) (bases []byte, ok bool)
	// ContigLength returns the full length of the named contig.
	ContigLength(name string) (int, bool)
}

// ReferenceRegion caches the most recently fetched contig fragment so
// that coordinate-sorted input amortizes one fetch across many records.
// It belongs exclusively to the slice builder and is never shared across
// goroutines (section 4.1, section 5).
type ReferenceRegion struct {
	source ReferenceSource

	contigName string
	contigID   int32
	offset     int
	length     int
	bases      []byte

	initialized bool
}

// NewReferenceRegion constructs an uninitialized region backed by src.
func NewReferenceRegion(src ReferenceSource) *ReferenceRegion {
	return &ReferenceRegion{source: src}
}

// FetchContig ensures the region holds the entire named contig,
// re-fetching only if the cached region is not exactly that full contig.
func (r *ReferenceRegion) FetchContig(contigID int32, name string) error {
	contigLen, ok := r.source.ContigLength(name)
	if !ok {
		return newError(UnknownContig, name, nil)
	}
	if r.initialized && r.contigID == contigID && r.offset == 0 && r.length == contigLen {
		return nil
	}
	bases, ok := r.source.BasesForContig(name)
	if !ok {
		return newError(ReferenceUnavailable, name, nil)
	}
	if len(bases) < contigLen {
		vlog.Warningf("cram: reference region: short read for contig %s: got %d bases, expected %d", name, len(bases), contigLen)
	}
	r.contigName = name
	r.contigID = contigID
	r.offset = 0
	r.length = len(bases)
	r.bases = bases
	r.initialized = true
	return nil
}

// FetchRange ensures the region covers at least [offset, offset+length)
// of the named contig, re-fetching only if the cached tuple does not
// match exactly.
func (r *ReferenceRegion) FetchRange(contigID int32, name string, offset, length int) error {
	if r.initialized && r.contigID == contigID && r.offset == offset && r.length == length {
		return nil
	}
	if _, ok := r.source.ContigLength(name); !ok {
		return newError(UnknownContig, name, nil)
	}
	bases, ok := r.source.BasesForRange(name, offset, length)
	if !ok {
		return newError(ReferenceUnavailable, name, errors.Errorf("no bases for range [%d, %d)", offset, offset+length))
	}
	if len(bases) < length {
		vlog.Warningf("cram: reference region: short read for %s:[%d,%d): got %d bases, expected %d", name, offset, offset+length, len(bases), length)
	}
	r.contigName = name
	r.contigID = contigID
	r.offset = offset
	r.length = len(bases)
	r.bases = bases
	r.initialized = true
	return nil
}

// Initialized reports whether the region has ever been fetched.
func (r *ReferenceRegion) Initialized() bool { return r.initialized }

// ContigID returns the sequence id backing the region. Only meaningful
// when Initialized() is true.
func (r *ReferenceRegion) ContigID() int32 { return r.contigID }

// Offset returns the zero-based offset of the region into its contig.
func (r *ReferenceRegion) Offset() int { return r.offset }

// Len returns the number of cached bases.
func (r *ReferenceRegion) Len() int { return r.length }

// BaseAt returns the base at zero-based contig position pos exactly as
// the source supplied it (no case folding), or 'N' if pos falls outside
// the cached region (including past the end
// of the contig entirely — boundary behavior 11 in spec section 8).
func (r *ReferenceRegion) BaseAt(pos int) byte {
	rel := pos - r.offset
	if !r.initialized || rel < 0 || rel >= r.length {
		return 'N'
	}
	return r.bases[rel]
}
