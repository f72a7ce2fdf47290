package parser

import (
	"fmt"

	"github.com/re-centris/method-extractor/internal/analyzer/source"
)

// Comment is a comment token of a parsed file
type Comment = source.Comment

// Decl is the kind of a located declaration
type Decl string

const (
	DeclMethod             Decl = "method"
	DeclConstructor        Decl = "constructor"
	DeclCompactConstructor Decl = "compact_constructor"
)

// declKinds maps the node kinds both trees use for method-like declarations.
var declKinds = map[string]Decl{
	"method_declaration":              DeclMethod,
	"constructor_declaration":         DeclConstructor,
	"compact_constructor_declaration": DeclCompactConstructor,
}

var commentKinds = map[string]bool{
	"line_comment":  true,
	"block_comment": true,
	"comment":       true,
}

// Candidate is a located declaration with a body
type Candidate struct {
	Span source.Span
	Name string
	Decl Decl
}

func spanOf(start, end int) source.Span {
	return source.Span{Start: start, End: end}
}

func checkTree(tree *SourceTree) error {
	if tree == nil {
		return fmt.Errorf("%w: nil tree", ErrContractViolation)
	}
	if tree.closed {
		return fmt.Errorf("%w: %s: tree already closed", ErrContractViolation, tree.label)
	}
	return nil
}

// Locate returns the method-like declarations of tree in source order. A
// located declaration is never searched for nested ones, and declarations
// without a body are skipped.
func Locate(tree *SourceTree) ([]Candidate, error) {
	if err := checkTree(tree); err != nil {
		return nil, err
	}

	var out []Candidate
	switch {
	case tree.kind == KindTreeSitter && tree.ts != nil:
		out = locateTreeSitter(tree.ts, tree.src)
	case tree.kind == KindNative && tree.native != nil:
		out = locateNative(tree.native)
	default:
		return nil, fmt.Errorf("%w: %s: malformed %s tree", ErrContractViolation, tree.label, tree.kind)
	}

	for i := range out {
		if out[i].Name == "" {
			out[i].Name = AnonymousName
		}
	}
	return out, nil
}

// Comments returns every comment token of tree in source order
func Comments(tree *SourceTree) ([]Comment, error) {
	if err := checkTree(tree); err != nil {
		return nil, err
	}

	switch {
	case tree.kind == KindTreeSitter && tree.ts != nil:
		return commentsTreeSitter(tree.ts), nil
	case tree.kind == KindNative && tree.native != nil:
		return commentsNative(tree.native), nil
	}
	return nil, fmt.Errorf("%w: %s: malformed %s tree", ErrContractViolation, tree.label, tree.kind)
}
