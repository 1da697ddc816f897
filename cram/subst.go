package cram

import "sort"

var substBases = [5]byte{'A', 'C', 'G', 'T', 'N'}

func substRowIndex(base byte) (int, bool) {
	switch base {
	case 'A':
		return 0, true
	case 'C':
		return 1, true
	case 'G':
		return 2, true
	case 'T':
		return 3, true
	case 'N':
		return 4, true
	default:
		return 0, false
	}
}

// SubstitutionMatrix is the per-container 5x4 table mapping
// (reference base, read base) to a two-bit code, derived from the
// empirical substitution-frequency counts of a container's records
// (spec section 3, section 4.6).
type SubstitutionMatrix struct {
	// codeOf[refRow][readRow], both indices in substBases order; the
	// diagonal (read == ref) is unused.
	codeOf [5][5]byte // indexed by [refRowIndex][readRowIndex]; only entries for read != ref are valid
}

// buildSubstitutionMatrix counts substitution frequencies across feats,
// sorts each row by descending frequency (ties broken by base-letter
// order), and assigns two-bit codes 0..3 in that order.
func buildSubstitutionMatrix(feats []ReadFeature) *SubstitutionMatrix {
	var freq [5][5]int
	for _, f := range feats {
		if f.Code != FeatureSubstitution {
			continue
		}
		ri, ok := substRowIndex(f.RefBase)
		if !ok {
			continue
		}
		ci, ok := substRowIndex(f.ReadBase)
		if !ok {
			continue
		}
		freq[ri][ci]++
	}
	m := &SubstitutionMatrix{}
	for row := 0; row < 5; row++ {
		others := make([]int, 0, 4)
		for col := 0; col < 5; col++ {
			if col == row {
				continue
			}
			others = append(others, col)
		}
		sort.SliceStable(others, func(i, j int) bool {
			fi, fj := freq[row][others[i]], freq[row][others[j]]
			if fi != fj {
				return fi > fj
			}
			return substBases[others[i]] < substBases[others[j]]
		})
		for code, col := range others {
			m.codeOf[row][col] = byte(code)
		}
	}
	return m
}

// Lookup returns the two-bit code for a substitution from ref to read.
// Both bases must be one of A,C,G,T,N and must differ.
func (m *SubstitutionMatrix) Lookup(ref, read byte) (byte, bool) {
	ri, ok := substRowIndex(ref)
	if !ok {
		return 0, false
	}
	ci, ok := substRowIndex(read)
	if !ok {
		return 0, false
	}
	if ri == ci {
		return 0, false
	}
	return m.codeOf[ri][ci], true
}

// stampCodes assigns the SubCode field of every substitution feature in
// feats by looking it up in m (spec section 4.6's final matrix step).
func (m *SubstitutionMatrix) stampCodes(feats []ReadFeature) {
	for i := range feats {
		f := &feats[i]
		if f.Code != FeatureSubstitution {
			continue
		}
		if code, ok := m.Lookup(f.RefBase, f.ReadBase); ok {
			f.SubCode = code
		}
	}
}
