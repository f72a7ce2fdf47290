// Package extractor composes the locator and the normalizer: it turns one
// parsed file into the ordered list of its normalized methods.
package extractor

import (
	"fmt"
	"sort"
	"time"

	"github.com/re-centris/method-extractor/internal/analyzer/normalizer"
	"github.com/re-centris/method-extractor/internal/analyzer/parser"
	"github.com/re-centris/method-extractor/internal/analyzer/source"
	"github.com/re-centris/method-extractor/internal/common/monitor"
)

// Method is one extracted method or constructor
type Method struct {
	Name              string      `json:"name"`
	Decl              parser.Decl `json:"kind"`
	Span              source.Span `json:"-"`
	StartLine         int         `json:"start_line"`
	EndLine           int         `json:"end_line"`
	RawContent        string      `json:"-"`
	NormalizedContent string      `json:"-"`
}

// Extractor extracts methods from trees of one backend kind
type Extractor struct {
	kind     parser.Kind
	opts     normalizer.Options
	recorder monitor.Recorder
}

// New creates an Extractor that accepts only trees of the given kind
func New(kind parser.Kind, opts normalizer.Options, recorder monitor.Recorder) *Extractor {
	return &Extractor{
		kind:     kind,
		opts:     opts,
		recorder: monitor.OrNop(recorder),
	}
}

// Options returns the normalization options
func (e *Extractor) Options() normalizer.Options {
	return e.opts
}

// Kind returns the tree kind the extractor accepts
func (e *Extractor) Kind() parser.Kind {
	return e.kind
}

// Extract returns the methods of tree in source order. src must be the text
// the tree was parsed from. Methods whose normalized text is shorter than
// the configured minimum are left out.
func (e *Extractor) Extract(tree *parser.SourceTree, src []byte) ([]Method, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", parser.ErrContractViolation)
	}
	if tree.Kind() != e.kind {
		return nil, fmt.Errorf("%w: %s: got %s tree, extractor expects %s",
			parser.ErrContractViolation, tree.Label(), tree.Kind(), e.kind)
	}

	start := time.Now()
	defer func() { e.recorder.RecordExtraction(time.Since(start)) }()

	candidates, err := parser.Locate(tree)
	if err != nil {
		return nil, err
	}
	comments, err := parser.Comments(tree)
	if err != nil {
		return nil, err
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].Start < comments[j].Start })

	lines := source.NewLines(src)
	methods := make([]Method, 0, len(candidates))
	for _, c := range candidates {
		if !c.Span.Valid(len(src)) {
			return nil, fmt.Errorf("%w: %s: span [%d, %d) outside source of %d bytes",
				parser.ErrContractViolation, tree.Label(), c.Span.Start, c.Span.End, len(src))
		}

		raw := c.Span.Text(src)
		normStart := time.Now()
		text, ok := normalizer.Normalize(raw, c.Span.Start, within(comments, c.Span), e.opts)
		e.recorder.RecordNormalization(time.Since(normStart))
		if !ok {
			continue
		}

		methods = append(methods, Method{
			Name:              c.Name,
			Decl:              c.Decl,
			Span:              c.Span,
			StartLine:         lines.At(c.Span.Start),
			EndLine:           lines.At(max(c.Span.End-1, c.Span.Start)),
			RawContent:        raw,
			NormalizedContent: text,
		})
	}
	return methods, nil
}

// within narrows sorted comments to those starting inside span.
func within(comments []parser.Comment, span source.Span) []parser.Comment {
	lo := sort.Search(len(comments), func(i int) bool { return comments[i].Start >= span.Start })
	hi := sort.Search(len(comments), func(i int) bool { return comments[i].Start >= span.End })
	return comments[lo:hi]
}
