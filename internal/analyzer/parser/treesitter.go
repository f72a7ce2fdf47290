package parser

import (
	"context"
	"fmt"
	"time"
)

// TreeSitter parses Java with tree-sitter. The Go binding is chosen at build
// time; see binding_*.go.
type TreeSitter struct {
	cfg Config
}

// NewTreeSitter creates the tree-sitter backend
func NewTreeSitter(cfg Config) *TreeSitter {
	return &TreeSitter{cfg: cfg}
}

func (b *TreeSitter) Name() string { return KindTreeSitter.String() }
func (b *TreeSitter) Kind() Kind   { return KindTreeSitter }

// Binding returns the import path of the compiled-in tree-sitter binding
func (b *TreeSitter) Binding() string { return treeSitterBinding }

// Parse parses src with a fresh tree-sitter parser
func (b *TreeSitter) Parse(ctx context.Context, label string, src []byte) (*SourceTree, error) {
	if err := b.cfg.precheck(ctx, label, src); err != nil {
		return nil, err
	}

	start := time.Now()
	tree, hasError, err := parseTreeSitter(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseFailure, label, err)
	}
	b.cfg.recorder().RecordParse(time.Since(start))

	if b.cfg.Strict && hasError {
		tree.close()
		return nil, fmt.Errorf("%w: %s: tree contains syntax errors", ErrParseFailure, label)
	}
	return &SourceTree{kind: KindTreeSitter, label: label, src: src, ts: tree}, nil
}
