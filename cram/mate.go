package cram

// MateResolver links mate pairs within a slice and marks records whose
// mate cannot be reconstructed from the in-slice chain as detached
// (spec section 4.3).
type MateResolver struct {
	coordinateSorted bool
}

// NewMateResolver builds a resolver. coordinateSorted should reflect
// whether the incoming record stream is known to be coordinate-sorted;
// when false, mate linking is skipped entirely and every paired record
// is written detached.
func NewMateResolver(coordinateSorted bool) *MateResolver {
	return &MateResolver{coordinateSorted: coordinateSorted}
}

// Resolve implements the mate-resolver contract over one slice's worth
// of records, in push order.
func (m *MateResolver) Resolve(records []*CompressionRecord) {
	if !m.coordinateSorted {
		for _, r := range records {
			if r.isPaired() {
				r.Detached = true
			}
		}
		return
	}

	primary := make(map[string]int)   // name -> slice index
	secondary := make(map[string]int) // name -> slice index
	const secondaryFlag = 0x100

	for i, r := range records {
		if !r.isPaired() {
			continue
		}
		table := primary
		if r.Flags&secondaryFlag != 0 {
			table = secondary
		}
		name := string(r.Name)
		if j, ok := table[name]; ok {
			earlier, later := j, i
			records[earlier].NextFragmentDelta = int32(later - earlier)
			records[earlier].HasMateLink = true
			records[later].NextFragmentDelta = int32(earlier - later)
			records[later].HasMateLink = true
			delete(table, name)
		} else {
			table[name] = i
		}
	}

	// Second pass: anything left unlinked (mate not found in this
	// slice) is detached, carrying its mate fields explicitly.
	for _, r := range records {
		if r.isPaired() && !r.HasMateLink {
			r.Detached = true
		}
	}
}
