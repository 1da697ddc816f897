package cram

import (
	"regexp"
	"testing"
)

func TestShouldCaptureDefaultIsNone(t *testing.T) {
	s := NewEncodingStrategy()
	if s.shouldCapture([2]byte{'X', '1'}) {
		t.Errorf("default strategy must not capture any tag (Open Question 2, spec section 9: resolved as 'preserve none')")
	}
}

func TestShouldCaptureAllTagsMinusIgnored(t *testing.T) {
	s := NewEncodingStrategy(OptCaptureAllTags(), OptIgnoreTags([2]byte{'X', '1'}))
	if !s.shouldCapture([2]byte{'X', '2'}) {
		t.Errorf("CaptureAllTags should capture tags not explicitly ignored")
	}
	if s.shouldCapture([2]byte{'X', '1'}) {
		t.Errorf("IgnoreTags should override CaptureAllTags")
	}
}

func TestShouldCaptureExplicitListOnly(t *testing.T) {
	s := NewEncodingStrategy(OptCaptureTags([2]byte{'A', 'S'}))
	if !s.shouldCapture([2]byte{'A', 'S'}) {
		t.Errorf("explicitly listed tag must be captured")
	}
	if s.shouldCapture([2]byte{'N', 'M'}) {
		t.Errorf("unlisted tag must not be captured when CaptureAllTags is false")
	}
}

func TestShouldCaptureNeverCapturesReadGroupTag(t *testing.T) {
	s := NewEncodingStrategy(OptCaptureAllTags())
	if s.shouldCapture([2]byte{'R', 'G'}) {
		t.Errorf("RG tag must never be captured as a generic tag: it has its own dedicated column")
	}
}

func TestShouldCaptureRespectsIgnorePattern(t *testing.T) {
	s := NewEncodingStrategy(OptCaptureAllTags(), OptIgnoreTagPattern(regexp.MustCompile("^X")))
	if s.shouldCapture([2]byte{'X', '1'}) {
		t.Errorf("tag matching IgnoreTagPattern must not be captured")
	}
	if !s.shouldCapture([2]byte{'A', 'S'}) {
		t.Errorf("tag not matching IgnoreTagPattern should still be captured")
	}
}
