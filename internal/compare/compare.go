// Package compare runs both parser backends over the same files and reports
// where their extracted methods differ.
package compare

import (
	"context"
	"fmt"
	"os"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/re-centris/method-extractor/internal/analyzer/extractor"
	"github.com/re-centris/method-extractor/internal/analyzer/normalizer"
	"github.com/re-centris/method-extractor/internal/analyzer/parser"
	"github.com/re-centris/method-extractor/internal/collector"
)

// Mismatch describes a file on which the backends disagree
type Mismatch struct {
	Path string
	Diff string
	// Err is set when one backend failed and the other did not.
	Err error
}

// Report summarises a comparison run
type Report struct {
	Files      int
	Agreed     int
	Skipped    int
	Mismatches []Mismatch
}

// Comparer extracts each file with two backends
type Comparer struct {
	left, right parser.Backend
	opts        normalizer.Options
}

// New creates a comparer for the two backends
func New(left, right parser.Backend, opts normalizer.Options) *Comparer {
	return &Comparer{left: left, right: right, opts: opts}
}

// Run compares every file in order
func (c *Comparer) Run(ctx context.Context, files []collector.SourceFile) (*Report, error) {
	report := &Report{Files: len(files)}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		m, skipped, err := c.File(ctx, f)
		switch {
		case err != nil:
			return report, err
		case skipped:
			report.Skipped++
		case m != nil:
			report.Mismatches = append(report.Mismatches, *m)
		default:
			report.Agreed++
		}
	}
	return report, nil
}

// File compares one file. It reports skipped when both backends fail to
// parse it, and a nil Mismatch when they agree.
func (c *Comparer) File(ctx context.Context, f collector.SourceFile) (*Mismatch, bool, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	left, lerr := c.extract(ctx, c.left, f.RelPath, content)
	right, rerr := c.extract(ctx, c.right, f.RelPath, content)
	switch {
	case lerr != nil && rerr != nil:
		return nil, true, nil
	case lerr != nil:
		return &Mismatch{Path: f.RelPath, Err: fmt.Errorf("%s: %w", c.left.Name(), lerr)}, false, nil
	case rerr != nil:
		return &Mismatch{Path: f.RelPath, Err: fmt.Errorf("%s: %w", c.right.Name(), rerr)}, false, nil
	}

	diff, err := Diff(f.RelPath, c.left.Name(), c.right.Name(), left, right)
	if err != nil || diff == "" {
		return nil, false, err
	}
	return &Mismatch{Path: f.RelPath, Diff: diff}, false, nil
}

// Diff returns a unified diff between two method lists of the file at path,
// or "" when they are identical.
func Diff(path, leftName, rightName string, left, right []extractor.Method) (string, error) {
	a, b := render(left), render(right)
	if a == b {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: leftName + "/" + path,
		ToFile:   rightName + "/" + path,
		Context:  3,
	})
}

func (c *Comparer) extract(ctx context.Context, b parser.Backend, label string, content []byte) ([]extractor.Method, error) {
	tree, err := b.Parse(ctx, label, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return extractor.New(b.Kind(), c.opts, nil).Extract(tree, content)
}

// render lays the methods out one per block, header first.
func render(methods []extractor.Method) string {
	var sb strings.Builder
	for _, m := range methods {
		fmt.Fprintf(&sb, "== %s %s [%d-%d]\n", m.Decl, m.Name, m.StartLine, m.EndLine)
		sb.WriteString(m.NormalizedContent)
		sb.WriteString("\n")
	}
	return sb.String()
}
