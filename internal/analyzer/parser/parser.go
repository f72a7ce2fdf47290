// Package parser turns Java source text into a SourceTree using one of two
// interchangeable backends, and locates method-like declarations in it.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/re-centris/method-extractor/internal/analyzer/parser/javasyn"
	"github.com/re-centris/method-extractor/internal/common/monitor"
)

var (
	// ErrParseFailure marks a file that could not be turned into a tree.
	ErrParseFailure = errors.New("parse failure")
	// ErrContractViolation marks a tree handed to code that cannot read it.
	ErrContractViolation = errors.New("contract violation")
	// ErrUnknownBackend is returned for an unregistered backend name.
	ErrUnknownBackend = errors.New("unknown backend")
)

// AnonymousName is reported for a declaration whose name cannot be resolved.
const AnonymousName = "anonymous"

// Kind identifies the concrete tree inside a SourceTree
type Kind int

const (
	KindUnknown Kind = iota
	KindTreeSitter
	KindNative
)

func (k Kind) String() string {
	switch k {
	case KindTreeSitter:
		return "treesitter"
	case KindNative:
		return "native"
	default:
		return "unknown"
	}
}

// ParseKind maps a backend name to its Kind
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "treesitter", "tree-sitter":
		return KindTreeSitter, nil
	case "native":
		return KindNative, nil
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Config holds the options shared by every backend
type Config struct {
	// Strict rejects trees that contain syntax errors.
	Strict bool
	// MaxFileSize rejects larger inputs when positive.
	MaxFileSize int64
	Recorder    monitor.Recorder
}

func (c Config) recorder() monitor.Recorder {
	return monitor.OrNop(c.Recorder)
}

// precheck applies the checks common to every backend before parsing.
func (c Config) precheck(ctx context.Context, label string, src []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParseFailure, label, err)
	}
	if c.MaxFileSize > 0 && int64(len(src)) > c.MaxFileSize {
		return fmt.Errorf("%w: %s: %d bytes exceeds limit of %d", ErrParseFailure, label, len(src), c.MaxFileSize)
	}
	return nil
}

// Backend turns source text into a SourceTree
type Backend interface {
	// Name returns the configuration name of the backend
	Name() string

	// Kind returns the kind of tree the backend produces
	Kind() Kind

	// Parse parses src. label is used for diagnostics only.
	Parse(ctx context.Context, label string, src []byte) (*SourceTree, error)
}

// SourceTree wraps exactly one concrete syntax tree. It is owned by the
// caller that parsed it and must be closed once extraction is done.
type SourceTree struct {
	kind   Kind
	label  string
	src    []byte
	ts     *tsTree
	native *javasyn.Tree
	closed bool
}

// Kind returns the kind of the wrapped tree
func (t *SourceTree) Kind() Kind {
	return t.kind
}

// Label returns the label the tree was parsed with
func (t *SourceTree) Label() string {
	return t.label
}

// Source returns the text the tree was parsed from
func (t *SourceTree) Source() []byte {
	return t.src
}

// Close releases the tree. Spans already returned stay valid.
func (t *SourceTree) Close() {
	if t == nil || t.closed {
		return
	}
	t.closed = true
	if t.ts != nil {
		t.ts.close()
	}
}

// Registry maintains the available backends by name
type Registry struct {
	backends map[string]Backend
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// DefaultRegistry returns a registry holding both backends built from cfg
func DefaultRegistry(cfg Config) *Registry {
	r := NewRegistry()
	r.Register(NewTreeSitter(cfg))
	r.Register(NewNative(cfg))
	return r
}

// Register registers a backend under its name
func (r *Registry) Register(b Backend) {
	r.backends[b.Name()] = b
}

// Get returns the backend registered under name
func (r *Registry) Get(name string) (Backend, bool) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, false
	}
	b, ok := r.backends[kind.String()]
	return b, ok
}

// Names returns the registered backend names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the backend called name
func New(name string, cfg Config) (Backend, error) {
	b, ok := DefaultRegistry(cfg).Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return b, nil
}
