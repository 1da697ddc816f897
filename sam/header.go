// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "github.com/pkg/errors"

// Header represents a SAM/BAM/CRAM header, including the sequence
// dictionary needed to resolve reference IDs.
type Header struct {
	refs     []*Reference
	byName   map[string]*Reference
	readGrps []ReadGroup
	text     string
}

// ReadGroup represents an @RG header line.
type ReadGroup struct {
	ID     string
	Sample string
}

// NewHeader returns a new Header built from the given text (which may be
// nil) and sequence dictionary.
func NewHeader(text []byte, refs []*Reference) (*Header, error) {
	h := &Header{byName: make(map[string]*Reference, len(refs))}
	if text != nil {
		h.text = string(text)
	}
	for _, r := range refs {
		if err := h.AddReference(r); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// AddReference appends r to the header's sequence dictionary, assigning
// it the next available reference ID.
func (h *Header) AddReference(r *Reference) error {
	if _, ok := h.byName[r.name]; ok {
		return errors.Errorf("sam: duplicate reference name %q", r.name)
	}
	r.id = len(h.refs)
	h.refs = append(h.refs, r)
	h.byName[r.name] = r
	return nil
}

// Refs returns the header's sequence dictionary, indexed by reference ID.
func (h *Header) Refs() []*Reference { return h.refs }

// Reference returns the reference with the given zero-based id, or nil
// if id is out of range.
func (h *Header) Reference(id int) *Reference {
	if id < 0 || id >= len(h.refs) {
		return nil
	}
	return h.refs[id]
}

// AddReadGroup registers a read group in the header.
func (h *Header) AddReadGroup(rg ReadGroup) { h.readGrps = append(h.readGrps, rg) }

// ReadGroups returns the header's read groups.
func (h *Header) ReadGroups() []ReadGroup { return h.readGrps }
