package cram

import "regexp"

// readGroupTag is always filtered from capture: the read-group ordinal is
// stored in its own dedicated column, never as a generic tag.
var readGroupTag = [2]byte{'R', 'G'}

// EncodingStrategy parameterizes every policy decision the write pipeline
// makes that isn't dictated by the CRAM format itself. There is exactly
// one strategy in force per write session; it never changes mid-stream.
type EncodingStrategy struct {
	ReadsPerSlice                    int
	SlicesPerContainer                int
	MinimumSingleReferenceSliceSize  int
	PreserveReadNames                bool
	CaptureAllTags                   bool
	CaptureTags                      map[[3]byte]bool
	IgnoreTags                       map[[3]byte]bool
	IgnoreTagPattern                 *regexp.Regexp
	CustomEncodingMap                map[string]DataSeriesEncoding
}

// DataSeriesEncoding names an encoding for one of the named data series
// (e.g. "RN" for read names, "BA" for read bases). It is an opaque
// record: CustomEncodingMap stores these values on the strategy, but the
// compression-header factory does not read CustomEncodingMap, so an
// entry has no effect on the encodings written.
type DataSeriesEncoding struct {
	Codec string
	Args  []byte
}

// Opt configures an EncodingStrategy, following the functional-options
// shape used throughout this module's reference corpus (encoding/fasta's
// Opt/makeOpts).
type Opt func(*EncodingStrategy)

// OptReadsPerSlice overrides the default upper bound on records per slice.
func OptReadsPerSlice(n int) Opt {
	return func(s *EncodingStrategy) { s.ReadsPerSlice = n }
}

// OptSlicesPerContainer overrides the default upper bound on slices per
// container.
func OptSlicesPerContainer(n int) Opt {
	return func(s *EncodingStrategy) { s.SlicesPerContainer = n }
}

// OptMinimumSingleReferenceSliceSize overrides the threshold below which
// a single-reference run is abandoned in favor of a multi-reference
// slice.
func OptMinimumSingleReferenceSliceSize(n int) Opt {
	return func(s *EncodingStrategy) { s.MinimumSingleReferenceSliceSize = n }
}

// OptPreserveReadNames controls whether unnamed records keep an empty
// name (true) or receive a synthesized one (false).
func OptPreserveReadNames(preserve bool) Opt {
	return func(s *EncodingStrategy) { s.PreserveReadNames = preserve }
}

// OptCaptureAllTags keeps every tag not excluded by ignore_tags /
// OptIgnoreTagPattern.
func OptCaptureAllTags() Opt {
	return func(s *EncodingStrategy) { s.CaptureAllTags = true }
}

// OptCaptureTags restricts capture to exactly the named tags (ignored
// when CaptureAllTags is set).
func OptCaptureTags(ids ...[2]byte) Opt {
	return func(s *EncodingStrategy) {
		if s.CaptureTags == nil {
			s.CaptureTags = make(map[[3]byte]bool)
		}
		for _, id := range ids {
			s.CaptureTags[tagKey(id)] = true
		}
	}
}

// OptIgnoreTags excludes the named tags from capture even when
// CaptureAllTags is set.
func OptIgnoreTags(ids ...[2]byte) Opt {
	return func(s *EncodingStrategy) {
		if s.IgnoreTags == nil {
			s.IgnoreTags = make(map[[3]byte]bool)
		}
		for _, id := range ids {
			s.IgnoreTags[tagKey(id)] = true
		}
	}
}

// OptIgnoreTagPattern excludes from capture any tag whose two-letter name
// matches the given regular expression. This restores the htsjdk write
// path's regex-based tag exclusion (see SPEC_FULL.md section 4.2); it is
// additive and has no effect when unset.
func OptIgnoreTagPattern(pattern *regexp.Regexp) Opt {
	return func(s *EncodingStrategy) { s.IgnoreTagPattern = pattern }
}

// OptCustomEncoding records enc for a named data series in
// CustomEncodingMap. The compression-header factory does not consult the
// map, so the fixed encodings are written unchanged.
func OptCustomEncoding(series string, enc DataSeriesEncoding) Opt {
	return func(s *EncodingStrategy) {
		if s.CustomEncodingMap == nil {
			s.CustomEncodingMap = make(map[string]DataSeriesEncoding)
		}
		s.CustomEncodingMap[series] = enc
	}
}

// tagKey turns a 2-byte tag name into a comparable map key. The type
// byte is always 0: capture and ignore lists match by tag name only.
func tagKey(id [2]byte) [3]byte {
	return [3]byte{id[0], id[1], 0}
}

// NewEncodingStrategy builds an EncodingStrategy with the documented
// defaults, then applies opts in order.
func NewEncodingStrategy(opts ...Opt) *EncodingStrategy {
	s := &EncodingStrategy{
		ReadsPerSlice:                   10000,
		SlicesPerContainer:               1,
		MinimumSingleReferenceSliceSize: 1000,
		PreserveReadNames:               true,
		CaptureAllTags:                  false,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// shouldCapture implements the tag-selection policy of section 4.2:
// capture_all_tags wins when set (minus ignore_tags / IgnoreTagPattern),
// else capture_tags is consulted, else nothing is captured. The
// read-group tag is always excluded.
func (s *EncodingStrategy) shouldCapture(name [2]byte) bool {
	if name == readGroupTag {
		return false
	}
	key := tagKey(name)
	if s.IgnoreTags[key] {
		return false
	}
	if s.IgnoreTagPattern != nil && s.IgnoreTagPattern.MatchString(string(name[:])) {
		return false
	}
	if s.CaptureAllTags {
		return true
	}
	return s.CaptureTags[key]
}
