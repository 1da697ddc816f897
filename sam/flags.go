// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

// Flags represents SAM flag information.
type Flags uint16

const (
	Paired        Flags = 1 << iota // The read is paired in sequencing, no matter whether it is mapped in a pair.
	ProperPair                      // The read is mapped in a proper pair.
	Unmapped                        // The read itself is unmapped; conflictive with ProperPair.
	MateUnmapped                    // The mate is unmapped.
	Reverse                         // The read is mapped to the reverse strand.
	MateReverse                     // The mate is mapped to the reverse strand.
	Read1                           // This is read1.
	Read2                           // This is read2.
	Secondary                       // Not a primary alignment.
	QCFail                          // Read fails platform/vendor quality checks.
	Duplicate                       // Read is either a PCR or an optical duplicate.
	Supplementary                   // This is a supplementary alignment.
)

// String returns the SAM representation of the flag field.
func (f Flags) String() string {
	const flags = "pPuUrR12sfdS"
	b := make([]byte, 0, len(flags))
	for i, c := range flags {
		if f&(1<<uint(i)) != 0 {
			b = append(b, byte(c))
		}
	}
	return string(b)
}
