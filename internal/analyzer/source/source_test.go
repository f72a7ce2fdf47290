package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan(t *testing.T) {
	src := []byte("void f() {}")
	s := Span{Start: 5, End: 8}

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "f()", s.Text(src))
	assert.True(t, s.Valid(len(src)))
	assert.False(t, Span{Start: 4, End: 2}.Valid(len(src)))
	assert.False(t, Span{Start: 0, End: 12}.Valid(len(src)))
	assert.False(t, Span{Start: -1, End: 2}.Valid(len(src)))
}

func TestSpan_Contains(t *testing.T) {
	outer := Span{Start: 10, End: 20}

	tests := []struct {
		name  string
		inner Span
		want  bool
	}{
		{"inside", Span{Start: 12, End: 15}, true},
		{"same", Span{Start: 10, End: 20}, true},
		{"touching start", Span{Start: 10, End: 11}, true},
		{"overlaps start", Span{Start: 8, End: 12}, false},
		{"overlaps end", Span{Start: 18, End: 22}, false},
		{"before", Span{Start: 0, End: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outer.Contains(tt.inner))
		})
	}
}

func TestLines(t *testing.T) {
	src := []byte("a\nbc\n\nd")
	lines := NewLines(src)

	assert.Equal(t, Lines{0, 2, 5, 6}, lines)
	assert.Equal(t, 1, lines.At(0))
	assert.Equal(t, 1, lines.At(1))
	assert.Equal(t, 2, lines.At(2))
	assert.Equal(t, 3, lines.At(5))
	assert.Equal(t, 4, lines.At(6))
}
