package cram

import (
	"bytes"
	"runtime"
	"sync"

	"github.com/Schaudge/cram/cram/rans"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
)

// CompressionMethod is the wire method byte of a block (spec section
// 4.7).
type CompressionMethod byte

const (
	MethodRaw   CompressionMethod = 0
	MethodGzip  CompressionMethod = 1
	MethodBzip2 CompressionMethod = 2
	MethodLZMA  CompressionMethod = 3
	MethodRans  CompressionMethod = 4
)

// compressedCandidate is one compressor's trial result for a data
// series.
type compressedCandidate struct {
	method CompressionMethod
	data   []byte
}

// chooseCompressor implements spec section 4.6's compressor-choice
// rule: try gzip, bzip2, and rANS order-0/order-1, keep the smallest
// result, breaking ties in favor of the faster decoder
// (gzip < rANS < bzip2).
func chooseCompressor(raw []byte) (CompressionMethod, []byte) {
	candidates := compressAll(raw)
	best := compressedCandidate{method: MethodRaw, data: raw}
	bestRank := decoderSpeedRank(MethodRaw)
	for _, c := range candidates {
		if len(c.data) < len(best.data) ||
			(len(c.data) == len(best.data) && decoderSpeedRank(c.method) < bestRank) {
			best = c
			bestRank = decoderSpeedRank(c.method)
		}
	}
	return best.method, best.data
}

// decoderSpeedRank orders methods by decode speed, gzip fastest, bzip2
// slowest, used only to break compressed-size ties.
func decoderSpeedRank(m CompressionMethod) int {
	switch m {
	case MethodGzip:
		return 0
	case MethodRans:
		return 1
	case MethodBzip2:
		return 2
	default:
		return 3
	}
}

// compressAll runs every external compressor concurrently over raw. The
// worker pool is bounded by runtime.NumCPU(), matching the
// parallelism := runtime.NumCPU() idiom used by this module's CLI tools;
// results are collected into a fixed-size slice indexed by trial order
// so output selection is unaffected by goroutine scheduling (spec
// section 5).
func compressAll(raw []byte) []compressedCandidate {
	type trial struct {
		method CompressionMethod
		fn     func([]byte) ([]byte, error)
	}
	trials := []trial{
		{MethodGzip, compressGzip},
		{MethodBzip2, compressBzip2},
		{MethodRans, func(b []byte) ([]byte, error) { return compressRansBest(b), nil }},
	}

	results := make([]compressedCandidate, len(trials))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup
	for i, t := range trials {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, t trial) {
			defer wg.Done()
			defer func() { <-sem }()
			data, err := t.fn(raw)
			if err != nil {
				return
			}
			results[i] = compressedCandidate{method: t.method, data: data}
		}(i, t)
	}
	wg.Wait()

	out := results[:0]
	for _, r := range results {
		if r.data != nil {
			out = append(out, r)
		}
	}
	return out
}

func compressGzip(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compressBzip2(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compressRansBest tries both rANS orders and keeps the smaller result.
func compressRansBest(raw []byte) []byte {
	o0 := rans.Encode(raw, rans.Order0)
	o1 := rans.Encode(raw, rans.Order1)
	if len(o1) < len(o0) {
		return o1
	}
	return o0
}
