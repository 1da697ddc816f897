package cram

import "testing"

func TestChooseTagEncodingFixedWidthForNumericTypes(t *testing.T) {
	enc := chooseTagEncoding('i', [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}, 10)
	if enc.Kind != EncodingFixedWidth || enc.FixedSize != 4 {
		t.Errorf("int32 tag encoding = %+v, want FixedWidth/4", enc)
	}
}

func TestChooseTagEncodingStopByteForStrings(t *testing.T) {
	enc := chooseTagEncoding('Z', [][]byte{[]byte("abc"), []byte("de")}, 11)
	if enc.Kind != EncodingStopByte || enc.StopByte != '\t' {
		t.Errorf("string tag encoding = %+v, want StopByte/\\t", enc)
	}
}

func TestChooseTagEncodingFixedWidthWhenAllValuesSameLength(t *testing.T) {
	enc := chooseTagEncoding('B', [][]byte{{1, 2, 3}, {4, 5, 6}}, 12)
	if enc.Kind != EncodingFixedWidth || enc.FixedSize != 3 {
		t.Errorf("equal-length array tag encoding = %+v, want FixedWidth/3", enc)
	}
}

func TestChooseTagEncodingExternalLengthForVariableShortArrays(t *testing.T) {
	enc := chooseTagEncoding('B', [][]byte{{1, 2}, {3, 4, 5}}, 13)
	if enc.Kind != EncodingExternalLength {
		t.Errorf("variable-length short array tag encoding = %+v, want ExternalLength", enc)
	}
}

func TestUnusedByteFindsAGapInTheByteRange(t *testing.T) {
	values := [][]byte{{0, 1, 2}, {1, 2, 3}}
	b, ok := unusedByte(values)
	if !ok {
		t.Fatalf("expected an unused byte to exist")
	}
	for _, v := range values {
		for _, x := range v {
			if x == b {
				t.Errorf("unusedByte returned %d, which does appear in the input", b)
			}
		}
	}
}
