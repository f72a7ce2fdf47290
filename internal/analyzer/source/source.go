// Package source holds the byte-range types shared by the parsers, the
// normalizer and the extractor.
package source

import "sort"

// Span is a half-open byte range [Start, End) into a source file.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Valid reports whether the span lies inside a source of length n
func (s Span) Valid(n int) bool {
	return 0 <= s.Start && s.Start <= s.End && s.End <= n
}

// Contains reports whether o lies entirely inside s, edges included
func (s Span) Contains(o Span) bool {
	return o.Start >= s.Start && o.End <= s.End
}

// Text returns the bytes of src covered by the span
func (s Span) Text(src []byte) string {
	return string(src[s.Start:s.End])
}

// Comment is a comment token. Comments never overlap each other.
type Comment struct {
	Span
	Block bool
}

// Lines indexes the line starts of a source file
type Lines []int

// NewLines indexes src
func NewLines(src []byte) Lines {
	lines := Lines{0}
	for i, b := range src {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}

// At returns the 1-based line holding byte offset off
func (l Lines) At(off int) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > off })
}
