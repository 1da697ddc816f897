// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Reader reads SAM text format records, following the same pull idiom
// as the teacher's BAM Iterator: Next advances the cursor, Record
// returns the most recently read record, Err reports any non-EOF
// failure.
type Reader struct {
	s    *bufio.Scanner
	h    *Header
	rec  *Record
	err  error
	next string // one-line lookahead past the header block
	have bool
}

// NewReader returns a Reader over r, parsing the leading "@"-prefixed
// header lines (if any) into a Header.
func NewReader(r io.Reader) (*Reader, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16<<20)
	rd := &Reader{s: s}
	h, err := rd.parseHeaderLines()
	if err != nil {
		return nil, err
	}
	rd.h = h
	return rd, nil
}

// Header returns the Reader's parsed Header.
func (rd *Reader) Header() *Header { return rd.h }

func (rd *Reader) parseHeaderLines() (*Header, error) {
	h, err := NewHeader(nil, nil)
	if err != nil {
		return nil, err
	}
	for rd.s.Scan() {
		line := rd.s.Text()
		if line == "" {
			continue
		}
		if line[0] != '@' {
			// Not a header line: stash it as the first record line.
			rd.next, rd.have = line, true
			return h, nil
		}
		if err := parseHeaderLine(h, line); err != nil {
			return nil, err
		}
	}
	return h, rd.s.Err()
}

func parseHeaderLine(h *Header, line string) error {
	fields := strings.Split(line, "\t")
	switch fields[0] {
	case "@SQ":
		var name string
		var length int
		for _, f := range fields[1:] {
			kv := strings.SplitN(f, ":", 2)
			if len(kv) != 2 {
				continue
			}
			switch kv[0] {
			case "SN":
				name = kv[1]
			case "LN":
				n, err := strconv.Atoi(kv[1])
				if err != nil {
					return errors.Wrap(err, "sam: malformed @SQ LN")
				}
				length = n
			}
		}
		ref, err := NewReference(name, "", "", length, nil, nil)
		if err != nil {
			return err
		}
		return h.AddReference(ref)
	case "@RG":
		var rg ReadGroup
		for _, f := range fields[1:] {
			kv := strings.SplitN(f, ":", 2)
			if len(kv) != 2 {
				continue
			}
			switch kv[0] {
			case "ID":
				rg.ID = kv[1]
			case "SM":
				rg.Sample = kv[1]
			}
		}
		h.AddReadGroup(rg)
	}
	return nil
}

// Next advances the Reader to the next record. It returns false when
// the input is exhausted or an error occurs; see Err.
func (rd *Reader) Next() bool {
	if rd.err != nil {
		return false
	}
	var line string
	if rd.have {
		line, rd.have = rd.next, false
	} else {
		if !rd.s.Scan() {
			rd.err = rd.s.Err()
			if rd.err == nil {
				rd.err = io.EOF
			}
			return false
		}
		line = rd.s.Text()
	}
	if line == "" {
		return rd.Next()
	}
	rec := GetFromFreePool()
	if err := rec.UnmarshalSAM(rd.h, []byte(line)); err != nil {
		rd.err = err
		return false
	}
	rd.rec = rec
	return true
}

// Record returns the most recently read record.
func (rd *Reader) Record() *Record { return rd.rec }

// Err returns the first non-EOF error encountered.
func (rd *Reader) Err() error {
	if rd.err == io.EOF {
		return nil
	}
	return rd.err
}
