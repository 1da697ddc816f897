package itf8

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []int32{0, 1, 42, 127, 128, 255, 16383, 16384, 1 << 20, 1<<21 - 1, 1 << 27, 1<<28 - 1, 1 << 28, -1}
	for _, v := range cases {
		enc := Encode(nil, v)
		if len(enc) != Len(v) {
			t.Errorf("Len(%d) = %d, Encode produced %d bytes", v, Len(v), len(enc))
		}
		got, n, ok := Decode(enc)
		if !ok {
			t.Fatalf("Decode(%v) for v=%d: not ok", enc, v)
		}
		if n != len(enc) {
			t.Errorf("Decode(%d) consumed %d bytes, want %d", v, n, len(enc))
		}
		if got != v {
			t.Errorf("round trip: got %d, want %d (encoded %v)", got, v, enc)
		}
	}
}

func TestDecodeReportsShortBuffer(t *testing.T) {
	enc := Encode(nil, 1<<20) // 3-byte encoding
	_, need, ok := Decode(enc[:1])
	if ok {
		t.Fatalf("Decode on truncated input reported ok")
	}
	if need != len(enc) {
		t.Errorf("Decode reported needing %d bytes, want %d", need, len(enc))
	}
}

func TestEncodeSliceRoundTrip(t *testing.T) {
	vs := []int32{0, 10, 1 << 20, 5}
	enc := EncodeSlice(nil, vs)
	n, consumed, ok := Decode(enc)
	if !ok || int(n) != len(vs) {
		t.Fatalf("EncodeSlice length prefix decode = %d,%v,%v want %d,true", n, consumed, ok, len(vs))
	}
	rest := enc[consumed:]
	for _, want := range vs {
		got, c, ok := Decode(rest)
		if !ok || got != want {
			t.Fatalf("EncodeSlice element decode got %d want %d", got, want)
		}
		rest = rest[c:]
	}
	if len(rest) != 0 {
		t.Errorf("%d trailing bytes left after decoding all elements", len(rest))
	}
}
