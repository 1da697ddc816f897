// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import "github.com/pkg/errors"

// Reference represents a reference sequence in a SAM/BAM/CRAM sequence
// dictionary.
type Reference struct {
	id     int
	name   string
	length int
	md5    string
	uri    string
}

// NewReference returns a new Reference. length is the length of the
// sequence; uri and md5 are optional annotations copied from the SAM
// header's @SQ line.
func NewReference(name, md5, uri string, length int, extra, unused []string) (*Reference, error) {
	if name == "" {
		return nil, errors.New("sam: reference name is empty")
	}
	if length < 0 {
		return nil, errors.New("sam: reference length out of range")
	}
	return &Reference{id: -1, name: name, length: length, md5: md5, uri: uri}, nil
}

// ID returns the zero-based index of the reference in its Header's
// sequence dictionary, or -1 if the Reference is not yet attached to a
// Header.
func (r *Reference) ID() int {
	if r == nil {
		return -1
	}
	return r.id
}

// Name returns the reference's name, or "*" for a nil Reference.
func (r *Reference) Name() string {
	if r == nil {
		return "*"
	}
	return r.name
}

// Len returns the length of the reference sequence.
func (r *Reference) Len() int {
	if r == nil {
		return 0
	}
	return r.length
}

// MD5 returns the M5 annotation of the reference, if any.
func (r *Reference) MD5() string {
	if r == nil {
		return ""
	}
	return r.md5
}
