// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

// Doublet is a nybble-encoded pair of nucleotide bases.
type Doublet byte

// Seq is a nybble-encoded nucleotide sequence, matching BAM's packed
// 4-bit base representation.
type Seq struct {
	Length int
	Seq    []Doublet
}

// SeqBase is BAM's 4-bit encoding of nucleotide base types. See section
// 4.2 of https://samtools.github.io/hts-specs/SAMv1.pdf.
type SeqBase byte

const (
	BaseA SeqBase = 1
	BaseC SeqBase = 2
	BaseG SeqBase = 4
	BaseT SeqBase = 8
	BaseS SeqBase = 6
	BaseN SeqBase = 15

	// NumSeqBaseTypes is the number of possible SeqBase values.
	NumSeqBaseTypes = 16
)

var baseTable = [256]SeqBase{
	'=': 0, 'A': 1, 'C': 2, 'M': 3, 'G': 4, 'R': 5, 'S': 6, 'V': 7,
	'T': 8, 'W': 9, 'Y': 10, 'H': 11, 'K': 12, 'D': 13, 'B': 14, 'N': 15,
	'a': 1, 'c': 2, 'm': 3, 'g': 4, 'r': 5, 's': 6, 'v': 7,
	't': 8, 'w': 9, 'y': 10, 'h': 11, 'k': 12, 'd': 13, 'b': 14, 'n': 15,
}

var baseTableRev = [16]byte{
	'=', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N',
}

// CharToSeqBase converts an ASCII base character to its 4-bit SeqBase
// encoding.
func CharToSeqBase(char byte) SeqBase { return baseTable[char] }

// NewSeq returns a new Seq based on the given byte slice of ASCII bases.
func NewSeq(s []byte) Seq {
	return Seq{Length: len(s), Seq: contract(s)}
}

func contract(s []byte) []Doublet {
	ns := make([]Doublet, (len(s)+1)>>1)
	var hi Doublet
	for i, b := range s {
		if i&1 == 0 {
			hi = Doublet(baseTable[b]) << 4
		} else {
			ns[i>>1] = hi | Doublet(baseTable[b])
		}
	}
	if len(s)&1 != 0 {
		ns[len(ns)-1] = hi
	}
	return ns
}

// Expand returns the ASCII byte representation of the receiver.
func (ns Seq) Expand() []byte {
	s := make([]byte, ns.Length)
	for i := range s {
		s[i] = ns.BaseChar(i)
	}
	return s
}

// Base returns the pos'th base of the sequence.
//
// REQUIRES: 0 <= pos < seq.Length
func (ns Seq) Base(pos int) SeqBase {
	if pos%2 == 0 {
		return SeqBase(ns.Seq[pos/2] >> 4)
	}
	return SeqBase(ns.Seq[pos/2] & 0xf)
}

// BaseChar returns the pos'th base of the sequence as an ASCII character.
//
// REQUIRES: 0 <= pos < seq.Length
func (ns Seq) BaseChar(pos int) byte { return baseTableRev[ns.Base(pos)] }

// Char converts a SeqBase to its ASCII character, e.g. BaseA.Char() == 'A'.
func (b SeqBase) Char() byte { return baseTableRev[b&0xf] }

// Equal reports whether the two Seq values encode the same bases.
func (ns Seq) Equal(other Seq) bool {
	if ns.Length != other.Length {
		return false
	}
	for i := range ns.Seq {
		if ns.Seq[i] != other.Seq[i] {
			return false
		}
	}
	return true
}
