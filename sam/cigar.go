// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"bytes"
	"fmt"
	"strconv"
)

// CigarOpType is a CIGAR operation type.
type CigarOpType byte

const (
	CigarMatch       CigarOpType = iota // M
	CigarInsertion                      // I
	CigarDeletion                       // D
	CigarSkipped                        // N
	CigarSoftClipped                    // S
	CigarHardClipped                    // H
	CigarPadded                         // P
	CigarEqual                          // =
	CigarMismatch                       // X
	CigarBack                           // B, legacy; unused by this writer.
	lastCigarOpType
)

var cigarOpCodes = [...]byte{'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', 'X', 'B'}

// Consumption describes whether a CIGAR operation consumes query and/or
// reference positions.
type Consumption struct {
	Query     int
	Reference int
}

var cigarConsumption = [...]Consumption{
	CigarMatch:       {1, 1},
	CigarInsertion:   {1, 0},
	CigarDeletion:    {0, 1},
	CigarSkipped:     {0, 1},
	CigarSoftClipped: {1, 0},
	CigarHardClipped: {0, 0},
	CigarPadded:      {0, 0},
	CigarEqual:       {1, 1},
	CigarMismatch:    {1, 1},
	CigarBack:        {0, -1},
}

// Consumes returns the consumption behavior of the operation type.
func (t CigarOpType) Consumes() Consumption { return cigarConsumption[t] }

// String returns the single-character SAM representation of the op type.
func (t CigarOpType) String() string { return string(cigarOpCodes[t]) }

// CigarOp is a single CIGAR operation, an operation type paired with a
// run length.
type CigarOp struct {
	n int
	t CigarOpType
}

// NewCigarOp returns a CigarOp of the given type and length.
func NewCigarOp(t CigarOpType, n int) CigarOp { return CigarOp{n: n, t: t} }

// Len returns the number of positions the operation covers on its
// consuming axis.
func (co CigarOp) Len() int { return co.n }

// Type returns the operation's CigarOpType.
func (co CigarOp) Type() CigarOpType { return co.t }

// String returns the SAM representation of the operation, e.g. "3M".
func (co CigarOp) String() string {
	return strconv.Itoa(co.n) + co.t.String()
}

// Cigar represents the CIGAR of a SAM/BAM record.
type Cigar []CigarOp

// IsValid returns whether the Cigar is consistent with a sequence of the
// given length: the sum of query-consuming operation lengths must equal
// seqLen, unless the Cigar is empty.
func (c Cigar) IsValid(seqLen int) bool {
	if len(c) == 0 {
		return true
	}
	var n int
	for _, co := range c {
		n += co.Len() * co.Type().Consumes().Query
	}
	return n == seqLen
}

// String returns the SAM representation of the Cigar, e.g. "3M1I3M", or
// "*" if the Cigar is empty.
func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var buf bytes.Buffer
	for _, co := range c {
		buf.WriteString(co.String())
	}
	return buf.String()
}

// Equal reports whether the two Cigars are identical.
func (c Cigar) Equal(other Cigar) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseCigar parses a SAM CIGAR string into a Cigar.
func ParseCigar(b []byte) (Cigar, error) {
	if bytes.Equal(b, []byte{'*'}) {
		return nil, nil
	}
	var c Cigar
	n := 0
	for _, ch := range b {
		if ch >= '0' && ch <= '9' {
			n = n*10 + int(ch-'0')
			continue
		}
		t, ok := cigarTypeForByte(ch)
		if !ok {
			return nil, fmt.Errorf("sam: invalid cigar operation %q", ch)
		}
		c = append(c, NewCigarOp(t, n))
		n = 0
	}
	if n != 0 {
		return nil, fmt.Errorf("sam: truncated cigar string %q", b)
	}
	return c, nil
}

func cigarTypeForByte(ch byte) (CigarOpType, bool) {
	for i, c := range cigarOpCodes {
		if c == ch {
			return CigarOpType(i), true
		}
	}
	return 0, false
}
