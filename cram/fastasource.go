package cram

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// FastaReferenceSource is a ReferenceSource backed by an in-memory FASTA
// file, parsed the way encoding/fasta.New's unindexed path does (scan
// lines, split on '>', concatenate sequence lines) — mirrored here
// rather than imported so this module doesn't have to carry fasta's own
// transitive dependency on the biosimd assembly package, which isn't
// buildable from this pack (see DESIGN.md).
type FastaReferenceSource struct {
	seqs map[string][]byte
}

// NewFastaReferenceSource parses FASTA-formatted data from r.
func NewFastaReferenceSource(r io.Reader) (*FastaReferenceSource, error) {
	s := &FastaReferenceSource{seqs: make(map[string][]byte)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 64*1024*1024)
	var name string
	var seq strings.Builder
	flush := func() {
		if name != "" {
			s.seqs[name] = []byte(seq.String())
		}
		seq.Reset()
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			name = strings.Split(line[1:], " ")[0]
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cram: couldn't read FASTA reference")
	}
	flush()
	return s, nil
}

func (s *FastaReferenceSource) BasesForContig(name string) ([]byte, bool) {
	bases, ok := s.seqs[name]
	return bases, ok
}

func (s *FastaReferenceSource) BasesForRange(name string, offset, length int) ([]byte, bool) {
	bases, ok := s.seqs[name]
	if !ok {
		return nil, false
	}
	if offset < 0 || offset > len(bases) {
		return nil, true
	}
	end := offset + length
	if end > len(bases) {
		end = len(bases)
	}
	return bases[offset:end], true
}

func (s *FastaReferenceSource) ContigLength(name string) (int, bool) {
	bases, ok := s.seqs[name]
	if !ok {
		return 0, false
	}
	return len(bases), true
}
