package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/re-centris/method-extractor/internal/analyzer/parser/javasyn"
)

// Native parses Java with the pure-Go declaration parser
type Native struct {
	cfg Config
}

// NewNative creates the native backend
func NewNative(cfg Config) *Native {
	return &Native{cfg: cfg}
}

func (b *Native) Name() string { return KindNative.String() }
func (b *Native) Kind() Kind   { return KindNative }

// Parse parses src into a declaration tree
func (b *Native) Parse(ctx context.Context, label string, src []byte) (*SourceTree, error) {
	if err := b.cfg.precheck(ctx, label, src); err != nil {
		return nil, err
	}

	start := time.Now()
	tree := javasyn.Parse(src)
	b.cfg.recorder().RecordParse(time.Since(start))

	if b.cfg.Strict && tree.HasError() {
		return nil, fmt.Errorf("%w: %s: %d syntax errors", ErrParseFailure, label, tree.Errors)
	}
	return &SourceTree{kind: KindNative, label: label, src: src, native: tree}, nil
}

func locateNative(t *javasyn.Tree) []Candidate {
	var out []Candidate
	javasyn.Walk(t.Root, func(n *javasyn.Node) bool {
		decl, ok := declKinds[string(n.Kind)]
		if !ok {
			return true
		}
		if n.HasBody {
			out = append(out, Candidate{
				Span: spanOf(n.Start, n.End),
				Name: n.Name,
				Decl: decl,
			})
		}
		return false
	})
	return out
}

func commentsNative(t *javasyn.Tree) []Comment {
	out := make([]Comment, 0, len(t.Comments))
	for _, c := range t.Comments {
		out = append(out, Comment{
			Span:  spanOf(c.Start, c.End),
			Block: c.Kind == javasyn.BlockComment,
		})
	}
	return out
}
