// Package javasyn is a small pure-Go Java declaration parser. It recognises
// type declarations and their members well enough to find every method and
// constructor body; statements and expressions are skipped by bracket
// matching and never modelled.
package javasyn

// NodeKind names a node of the declaration tree.
type NodeKind string

const (
	KindUnit               NodeKind = "compilation_unit"
	KindType               NodeKind = "type_declaration"
	KindMethod             NodeKind = "method_declaration"
	KindConstructor        NodeKind = "constructor_declaration"
	KindCompactConstructor NodeKind = "compact_constructor_declaration"
	// KindMember is any other member (field, initializer block, enum
	// constant) kept only because it encloses type declarations.
	KindMember NodeKind = "member"
)

// Node is one declaration. Start and End are byte offsets into the source.
type Node struct {
	Kind     NodeKind
	Start    int
	End      int
	Name     string
	HasBody  bool
	Children []*Node
}

// Tree is the parse result of one file
type Tree struct {
	Root     *Node
	Comments []Token
	// Errors counts unterminated tokens and unbalanced brackets.
	Errors int
}

// HasError reports whether the source had lexical or bracket errors
func (t *Tree) HasError() bool {
	return t.Errors > 0
}

// Walk visits nodes depth-first in source order. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Parse builds the declaration tree of src. It never fails; malformed input
// yields a best-effort tree with Errors set.
func Parse(src []byte) *Tree {
	all, lexErrs := Lex(src)

	toks := make([]Token, 0, len(all))
	var comments []Token
	for _, t := range all {
		if t.IsComment() {
			comments = append(comments, t)
			continue
		}
		toks = append(toks, t)
	}

	p := &parser{src: src, toks: toks, errs: lexErrs}
	p.match = p.matchBrackets()

	root := &Node{Kind: KindUnit, Start: 0, End: len(src)}
	p.unit(root)

	return &Tree{Root: root, Comments: comments, Errors: p.errs}
}
