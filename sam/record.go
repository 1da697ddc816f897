// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// DupType enumerates the different possible values for the Duplicate
// Type (DT) aux tag.
type DupType int

const (
	// DupTypeNone specifies duplicate type not present.
	DupTypeNone DupType = iota
	// DupTypeLB specifies "library" or PCR duplicate type.
	DupTypeLB
	// DupTypeSQ specifies "sequencer" or optical duplicate type.
	DupTypeSQ
)

var (
	bagIDTag          = Tag{'D', 'I'}
	bagSizeTag        = Tag{'D', 'S'}
	dupTypeTag        = Tag{'D', 'T'}
	libraryBagSizeTag = Tag{'D', 'L'}
)

// Record represents a SAM/BAM/CRAM aligned record.
type Record struct {
	Name      string
	Ref       *Reference
	Pos       int
	MapQ      byte
	Cigar     Cigar
	Flags     Flags
	MateRef   *Reference
	MatePos   int
	TempLen   int
	Seq       Seq
	Qual      []byte
	AuxFields AuxFields

	Scratch []byte
}

// NewRecord returns a Record, checking for consistency of the provided
// attributes.
func NewRecord(name string, ref, mRef *Reference, p, mPos, tLen int, mapQ byte, co []CigarOp, seq, qual []byte, aux []Aux) (*Record, error) {
	if len(name) == 0 || len(name) > 254 {
		return nil, errors.New("sam: name absent or too long")
	}
	if qual != nil && len(qual) != len(seq) {
		return nil, errors.New("sam: sequence/quality length mismatch")
	}
	if ref != nil && ref.id < -1 {
		return nil, errors.New("sam: linking to invalid reference")
	}
	r := GetFromFreePool()
	r.Name = name
	r.Ref = ref
	r.Pos = p
	r.MapQ = mapQ
	r.Cigar = co
	r.Flags = 0
	r.MateRef = mRef
	r.MatePos = mPos
	r.TempLen = tLen
	r.Seq = NewSeq(seq)
	r.Qual = qual
	r.AuxFields = aux
	return r, nil
}

// Tag returns an Aux tag whose tag ID matches the first two bytes of tag and true.
// If no tag matches, nil and false are returned.
func (r *Record) Tag(tag []byte) (v Aux, ok bool) {
	if len(tag) < 2 {
		panic("sam: tag too short")
	}
	for _, aux := range r.AuxFields {
		if aux.matches(tag) {
			return aux, true
		}
	}
	return nil, false
}

// RefID returns the reference ID for the Record, or -1 if unmapped.
func (r *Record) RefID() int { return r.Ref.ID() }

// Start returns the lower-coordinate end of the alignment.
func (r *Record) Start() int { return r.Pos }

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}

// End returns the highest reference-consuming coordinate end of the alignment.
func (r *Record) End() int {
	if r.Flags&Unmapped != 0 || len(r.Cigar) == 0 {
		return r.Pos + 1
	}
	pos := r.Pos
	end := pos
	for _, co := range r.Cigar {
		pos += co.Len() * co.Type().Consumes().Reference
		end = max(end, pos)
	}
	return end
}

// Len returns the length of the alignment on the reference.
func (r *Record) Len() int { return r.End() - r.Start() }

// Strand returns an int8 indicating the strand of the alignment. A
// positive return indicates alignment in the forward orientation, a
// negative return indicates the reverse orientation.
func (r *Record) Strand() int8 {
	if r.Flags&Reverse == Reverse {
		return -1
	}
	return 1
}

// LessByName returns true if the receiver sorts by record name before other.
func (r *Record) LessByName(other *Record) bool { return r.Name < other.Name }

// LessByCoordinate returns true if the receiver sorts by coordinate before
// other according to the SAM specification.
func (r *Record) LessByCoordinate(other *Record) bool {
	rRefName := r.Ref.Name()
	oRefName := other.Ref.Name()
	switch {
	case oRefName == "*":
		return true
	case rRefName == "*":
		return false
	}
	return (rRefName < oRefName) || (rRefName == oRefName && r.Pos < other.Pos)
}

// BagID returns the bag id (given by aux tag "DI") for r. If the DI tag
// is not set, returns (-1, nil). If the tag is present, but malformed,
// returns (-1, err).
func (r *Record) BagID() (int64, error) {
	val, found, err := r.auxInt64Value(bagIDTag)
	if found && val < 0 {
		return -1, fmt.Errorf("bag id: expected bag id >= 0, not %d", val)
	}
	return val, err
}

// BagSize returns the size of the bag as defined in the "DS" aux tag. If
// the aux tag is not present, returns (-1, nil).
func (r *Record) BagSize() (int, error) {
	val, found, err := r.auxIntValue(bagSizeTag)
	if found && val <= 0 {
		return -1, fmt.Errorf("bag size: expected bag size >= 1, not %d", val)
	}
	return val, err
}

// DupType returns the duplicate classification recorded in the "DT" aux
// tag. If the tag is absent, returns (DupTypeNone, nil).
func (r *Record) DupType() (DupType, error) {
	aux, err := r.AuxFields.GetUnique(dupTypeTag)
	if err != nil || aux == nil {
		return DupTypeNone, err
	}
	s, ok := aux.Value().(string)
	if !ok {
		return DupTypeNone, fmt.Errorf("optical dup: unexpected type: %s", aux.String())
	}
	switch s {
	case "SQ":
		return DupTypeSQ, nil
	case "LB":
		return DupTypeLB, nil
	}
	return DupTypeNone, fmt.Errorf("optical dup: unexpected value: %s", aux.String())
}

// LibraryBagSize returns the number of library-duplicate fragments
// recorded in the "DL" tag. If absent, returns (-1, nil).
func (r *Record) LibraryBagSize() (int, error) {
	val, found, err := r.auxIntValue(libraryBagSizeTag)
	if found && val < 1 {
		return -1, fmt.Errorf("%s: expected value >= 1, not %d", libraryBagSizeTag, val)
	}
	return val, err
}

func (r *Record) auxIntValue(tag Tag) (val int, found bool, err error) {
	aux, err := r.AuxFields.GetUnique(tag)
	if err != nil || aux == nil {
		return -1, false, err
	}
	switch v := aux.Value().(type) {
	case uint8:
		val = int(v)
	case int8:
		val = int(v)
	case int16:
		val = int(v)
	case uint16:
		val = int(v)
	case int32:
		val = int(v)
	default:
		return -1, false, fmt.Errorf("%s: unexpected type: %T", tag, v)
	}
	return val, true, nil
}

func (r *Record) auxInt64Value(tag Tag) (val int64, found bool, err error) {
	aux, err := r.AuxFields.GetUnique(tag)
	if err != nil || aux == nil {
		return -1, false, err
	}
	switch v := aux.Value().(type) {
	case uint8:
		val = int64(v)
	case int8:
		val = int64(v)
	case int16:
		val = int64(v)
	case uint16:
		val = int64(v)
	case int32:
		val = int64(v)
	case string:
		val, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return -1, false, err
		}
	default:
		return -1, false, fmt.Errorf("%s: unexpected type: %T", tag, v)
	}
	return val, true, nil
}

// String returns a string representation of the Record.
func (r *Record) String() string {
	end := r.End()
	return fmt.Sprintf("%s %v %v %d %s:%d..%d %d %s:%d %d %s %v %v",
		r.Name, r.Flags, r.Cigar, r.MapQ, r.Ref.Name(), r.Pos, end,
		end-r.Pos, r.MateRef.Name(), r.MatePos, r.TempLen,
		r.Seq.Expand(), r.Qual, r.AuxFields)
}

// Equal checks if the two records are identical, except for the Scratch
// field.
func (r *Record) Equal(other *Record) bool {
	return r.Name == other.Name &&
		r.Ref == other.Ref &&
		r.Pos == other.Pos &&
		r.MapQ == other.MapQ &&
		r.Cigar.Equal(other.Cigar) &&
		r.Flags == other.Flags &&
		r.MateRef == other.MateRef &&
		r.MatePos == other.MatePos &&
		r.TempLen == other.TempLen &&
		r.Seq.Equal(other.Seq) &&
		bytes.Equal(r.Qual, other.Qual) &&
		r.AuxFields.Equal(other.AuxFields)
}
