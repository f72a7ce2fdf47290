// Package normalizer turns the raw text of a declaration into its canonical
// form: comments removed, blank lines and trailing whitespace dropped, and
// optionally flattened onto a single line.
package normalizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/re-centris/method-extractor/internal/analyzer/source"
)

// ErrUnknownPolicy is returned by ParsePolicy for an unrecognised name.
var ErrUnknownPolicy = errors.New("unknown comment policy")

// Policy selects how a comment is removed. Blank is the default: it keeps
// the columns of the surrounding tokens, at the cost of a run of spaces
// where an inline comment stood. Space is the single-space variant.
type Policy int

const (
	// Blank replaces every rune of a comment with a space.
	Blank Policy = iota
	// Delete removes the comment outright.
	Delete
	// Space replaces the whole comment with one space.
	Space
)

func (p Policy) String() string {
	switch p {
	case Blank:
		return "blank"
	case Delete:
		return "delete"
	case Space:
		return "space"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blank":
		return Blank, nil
	case "delete":
		return Delete, nil
	case "space":
		return Space, nil
	}
	return Blank, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Options controls normalization. The same Options apply to every file of a run.
type Options struct {
	MinLines int
	OneLine  bool
	Policy   Policy
}

// Normalize cleans raw, the text found at byte offset start of a file whose
// comment tokens are comments. It returns false when the cleaned text has
// fewer than MinLines lines.
func Normalize(raw string, start int, comments []source.Comment, opts Options) (string, bool) {
	text := stripComments(raw, start, comments, opts.Policy)
	text = compact(text)

	if LineCount(text) < opts.MinLines {
		return "", false
	}
	if opts.OneLine {
		text = Flatten(text)
	}
	return text, true
}

// stripComments removes the comments lying entirely inside the raw span.
// Comments that only partly overlap it are left alone.
func stripComments(raw string, start int, comments []source.Comment, policy Policy) string {
	span := source.Span{Start: start, End: start + len(raw)}

	inside := make([]source.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Start < c.End && span.Contains(c.Span) {
			inside = append(inside, c)
		}
	}
	if len(inside) == 0 {
		return raw
	}
	sort.Slice(inside, func(i, j int) bool { return inside[i].Start < inside[j].Start })

	var b strings.Builder
	b.Grow(len(raw))
	cursor := 0
	for _, c := range inside {
		from, to := c.Start-start, c.End-start
		if from < cursor {
			continue
		}
		b.WriteString(raw[cursor:from])
		switch policy {
		case Blank:
			for range raw[from:to] {
				b.WriteByte(' ')
			}
		case Space:
			b.WriteByte(' ')
		}
		cursor = to
	}
	b.WriteString(raw[cursor:])
	return b.String()
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// compact strips trailing whitespace from every line and drops empty lines.
// A line ends at \r\n, \r or \n.
func compact(s string) string {
	lines := strings.Split(lineBreaks.Replace(s), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// LineCount returns the number of lines in s. The empty string has none.
func LineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// Flatten collapses every whitespace run, newlines included, to one space.
func Flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
