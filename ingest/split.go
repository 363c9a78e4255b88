package ingest

import (
	"regexp"
	"strings"
)

// Splitter divides decoded text into record segments.
//
// The two-character escapes `\n` and `\t` select plain substring splitting
// on newline and tab. Any other separator is compiled as a regular
// expression; if compilation fails it is silently used as a literal
// substring instead, so an operator passing "[[" gets literal matching
// rather than an error.
type Splitter struct {
	literal string
	re      *regexp.Regexp
}

// NewSplitter builds a Splitter for the given separator specification.
func NewSplitter(sep string) *Splitter {
	switch sep {
	case `\n`:
		return &Splitter{literal: "\n"}
	case `\t`:
		return &Splitter{literal: "\t"}
	}
	re, err := regexp.Compile(sep)
	if err != nil {
		return &Splitter{literal: sep}
	}
	return &Splitter{re: re}
}

// Split returns the segments of text between separator matches.
func (s *Splitter) Split(text string) []string {
	if s.re != nil {
		return s.re.Split(text, -1)
	}
	return strings.Split(text, s.literal)
}
