// Copyright ©2012-2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Tag is a two-character SAM/BAM aux tag identifier, e.g. {'R', 'G'}.
type Tag [2]byte

// String returns the two-character representation of the tag.
func (t Tag) String() string { return string(t[:]) }

// Aux represents a SAM/BAM auxiliary field, stored as the raw on-wire
// bytes: two tag bytes, one type byte, followed by the type-specific
// value encoding.
type Aux []byte

// NewAux returns a new Aux field for the given tag and value. Supported
// value types are int8/uint8/int16/uint16/int32/uint32/int, float32,
// string (type 'Z') and []byte (type 'H'). Typed arrays (type 'B') are
// not supported; any other value type returns an error.
func NewAux(tag Tag, value interface{}) (Aux, error) {
	buf := make([]byte, 2, 8)
	buf[0], buf[1] = tag[0], tag[1]
	switch v := value.(type) {
	case int8:
		buf = append(buf, 'c', byte(v))
	case uint8:
		buf = append(buf, 'C', v)
	case int16:
		buf = append(buf, 's', 0, 0)
		binary.LittleEndian.PutUint16(buf[3:], uint16(v))
	case uint16:
		buf = append(buf, 'S', 0, 0)
		binary.LittleEndian.PutUint16(buf[3:], v)
	case int32:
		buf = append(buf, 'i', 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(buf[3:], uint32(v))
	case uint32:
		buf = append(buf, 'I', 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(buf[3:], v)
	case int:
		return NewAux(tag, int32(v))
	case float32:
		buf = append(buf, 'f', 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(buf[3:], math.Float32bits(v))
	case string:
		buf = append(buf, 'Z')
		buf = append(buf, v...)
		buf = append(buf, 0)
	case []byte:
		buf = append(buf, 'H')
		buf = append(buf, v...)
		buf = append(buf, 0)
	default:
		return nil, errors.Errorf("sam: unsupported aux value type %T", value)
	}
	return Aux(buf), nil
}

// Tag returns the two-byte tag identifier of the field.
func (a Aux) Tag() Tag { return Tag{a[0], a[1]} }

// Type returns the single byte type code of the field.
func (a Aux) Type() byte { return a[2] }

func (a Aux) matches(tag []byte) bool {
	return a[0] == tag[0] && a[1] == tag[1]
}

// String returns a SAM-formatted "TAG:TYPE:VALUE" representation.
func (a Aux) String() string {
	return fmt.Sprintf("%c%c:%c:%v", a[0], a[1], a.Type(), a.Value())
}

// Value returns the parsed value of the field.
func (a Aux) Value() interface{} {
	switch a.Type() {
	case 'A':
		return a[3]
	case 'c':
		return int8(a[3])
	case 'C':
		return uint8(a[3])
	case 's':
		return int16(binary.LittleEndian.Uint16(a[3:]))
	case 'S':
		return binary.LittleEndian.Uint16(a[3:])
	case 'i':
		return int32(binary.LittleEndian.Uint32(a[3:]))
	case 'I':
		return binary.LittleEndian.Uint32(a[3:])
	case 'f':
		return binary.LittleEndian.Uint32(a[3:])
	case 'Z', 'H':
		return string(a[3 : len(a)-1])
	default:
		return a[3:]
	}
}

// AuxFields is a collection of Aux fields belonging to one record.
type AuxFields []Aux

// Equal reports whether the two aux field lists are byte-identical.
func (s AuxFields) Equal(other AuxFields) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !bytesEqual(s[i], other[i]) {
			return false
		}
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetUnique returns the single Aux field matching tag. If no field
// matches, it returns (nil, nil). If more than one field matches, it
// returns (nil, non-nil error).
func (s AuxFields) GetUnique(tag Tag) (Aux, error) {
	var found Aux
	for _, a := range s {
		if a.matches(tag[:]) {
			if found != nil {
				return nil, errors.Errorf("sam: tag %s appears more than once", tag)
			}
			found = a
		}
	}
	return found, nil
}

// ParseAux parses a single SAM-formatted "TAG:TYPE:VALUE" aux field.
func ParseAux(b []byte) (Aux, error) {
	if len(b) < 5 || b[2] != ':' || b[4] != ':' {
		return nil, errors.Errorf("sam: malformed aux field %q", b)
	}
	tag := Tag{b[0], b[1]}
	typ := b[3]
	val := string(b[5:])
	switch typ {
	case 'A':
		return NewAux(tag, val[0])
	case 'i':
		var v int64
		_, err := fmt.Sscanf(val, "%d", &v)
		if err != nil {
			return nil, err
		}
		return NewAux(tag, int32(v))
	case 'f':
		var v float32
		_, err := fmt.Sscanf(val, "%g", &v)
		if err != nil {
			return nil, err
		}
		return NewAux(tag, v)
	case 'Z':
		return NewAux(tag, val)
	default:
		return nil, errors.Errorf("sam: unsupported aux type %q", typ)
	}
}

func samAux(a Aux) string { return a.String() }
