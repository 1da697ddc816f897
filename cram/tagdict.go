package cram

import "bytes"

// TagDictionary is the container-scoped array of unique tag-id lists
// (spec section 3). Each list is the sorted tag-id triples appearing
// together on some record; each record carries a small integer index
// into this array.
type TagDictionary struct {
	lists [][]byte // each entry is len(tags)*3 bytes, sorted by tag-id
}

// tagDictBuilder accumulates distinct tag-id lists during a single
// compression-header build, assigning every record its final index as
// it is seen (spec section 4.6).
type tagDictBuilder struct {
	seen    map[string]int // lexicographic key -> index, insertion order
	order   [][]byte
}

func newTagDictBuilder() *tagDictBuilder {
	return &tagDictBuilder{seen: make(map[string]int)}
}

// add sorts r's tags by tag-id, concatenates their 3-byte ids, and
// records r's index into the (growing) dictionary.
func (b *tagDictBuilder) add(r *CompressionRecord) {
	sortTagsByID(r.Tags)
	key := make([]byte, 0, len(r.Tags)*3)
	for _, t := range r.Tags {
		key = append(key, t.ID[:]...)
	}
	idx, ok := b.seen[string(key)]
	if !ok {
		idx = len(b.order)
		b.seen[string(key)] = idx
		b.order = append(b.order, key)
	}
	r.tagDictionaryIndex = idx
}

// build finalizes the dictionary. Since add() already assigns indices in
// first-seen (insertion) order, no record fixup is needed here; insertion
// order is exactly what section 4.6 specifies as the dictionary's order.
func (b *tagDictBuilder) build() *TagDictionary {
	return &TagDictionary{lists: b.order}
}

func sortTagsByID(tags []tagValue) {
	// Insertion sort: tag lists are short (a handful of tags per record).
	for i := 1; i < len(tags); i++ {
		for j := i; j > 0 && bytes.Compare(tags[j].ID[:], tags[j-1].ID[:]) < 0; j-- {
			tags[j], tags[j-1] = tags[j-1], tags[j]
		}
	}
}

// Lists returns the dictionary's tag-id lists in index order.
func (d *TagDictionary) Lists() [][]byte { return d.lists }
