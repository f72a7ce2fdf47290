//go:build !smacker

package parser

import (
	"context"
	"errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

const treeSitterBinding = "github.com/tree-sitter/go-tree-sitter"

var javaLanguage = sitter.NewLanguage(java.Language())

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

	if err := parser.SetLanguage(javaLanguage); err != nil {
		return nil, false, err
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, false, errors.New("no tree produced")
	}
	if err := ctx.Err(); err != nil {
		tree.Close()
		return nil, false, err
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
		if decl, ok := declKinds[n.Kind()]; ok {
			if n.ChildByFieldName("body") == nil {
				return
			}
			c := Candidate{Span: spanOf(int(n.StartByte()), int(n.EndByte())), Decl: decl}
			if name := n.ChildByFieldName("name"); name != nil {
				c.Name = string(src[name.StartByte():name.EndByte()])
			}
			out = append(out, c)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(uint(i)); child != nil {
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
		if commentKinds[n.Kind()] {
			out = append(out, Comment{
				Span:  spanOf(int(n.StartByte()), int(n.EndByte())),
				Block: n.Kind() == "block_comment",
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(uint(i)); child != nil {
				walk(child)
			}
		}
	}
	walk(t.tree.RootNode())
	return out
}
