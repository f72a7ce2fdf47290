//go:build smacker

package parser

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

const treeSitterBinding = "github.com/smacker/go-tree-sitter"

// tsTree holds a tree-sitter tree. tree is nil for empty input.
type tsTree struct {
	tree *sitter.Tree
}

func (t *tsTree) close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

func parseTreeSitter(ctx context.Context, src []byte) (*tsTree, bool, error) {
	if len(src) == 0 {
		return &tsTree{}, false, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, false, err
	}
	if tree == nil {
		return nil, false, errors.New("no tree produced")
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, false, errors.New("tree has no root")
	}
	return &tsTree{tree: tree}, root.HasError(), nil
}

func locateTreeSitter(t *tsTree, src []byte) []Candidate {
	if t.tree == nil {
		return nil
	}

	var out []Candidate
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if decl, ok := declKinds[n.Type()]; ok {
			if n.ChildByFieldName("body") == nil {
				return
			}
			c := Candidate{Span: spanOf(int(n.StartByte()), int(n.EndByte())), Decl: decl}
			if name := n.ChildByFieldName("name"); name != nil {
				c.Name = name.Content(src)
			}
			out = append(out, c)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(t.tree.RootNode())
	return out
}

func commentsTreeSitter(t *tsTree) []Comment {
	if t.tree == nil {
		return nil
	}

	var out []Comment
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if commentKinds[n.Type()] {
			out = append(out, Comment{
				Span:  spanOf(int(n.StartByte()), int(n.EndByte())),
				Block: n.Type() == "block_comment",
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(t.tree.RootNode())
	return out
}
