// Package output writes extracted methods to disk and keeps a manifest of
// everything written during a run.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/glaslos/tlsh"

	"github.com/re-centris/method-extractor/internal/analyzer/extractor"
)

// ManifestName is the manifest file written at the output root
const ManifestName = "manifest.json"

// Entry describes one written method
type Entry struct {
	Source    string `json:"source"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Output    string `json:"output"`
	TLSH      string `json:"tlsh,omitempty"`
}

// Manifest lists every method written in a run
type Manifest struct {
	OneLine bool    `json:"one_line"`
	Files   int     `json:"files"`
	Methods int     `json:"methods"`
	Entries []Entry `json:"entries"`
}

// Writer writes methods below a root directory. With oneLine set, a source
// file Foo.java becomes Foo.txt holding every method followed by a blank
// line; otherwise it becomes a Foo/ directory holding Foo_1.txt, Foo_2.txt
// and so on. The source file's relative directory is mirrored under root.
type Writer struct {
	root    string
	oneLine bool

	mu      sync.Mutex
	files   int
	entries []Entry
}

// New creates a writer, creating root if needed
func New(root string, oneLine bool) (*Writer, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{root: root, oneLine: oneLine}, nil
}

// Root returns the output directory
func (w *Writer) Root() string {
	return w.root
}

// Write stores the methods of the source file at relPath, a slash-separated
// path relative to the scanned root. It returns the number of files
// written; a file without methods writes nothing.
func (w *Writer) Write(relPath string, methods []extractor.Method) (int, error) {
	if len(methods) == 0 {
		return 0, nil
	}
	if !filepath.IsLocal(filepath.FromSlash(relPath)) {
		return 0, fmt.Errorf("refusing to write outside %s: %q", w.root, relPath)
	}

	base := path.Base(relPath)
	class := strings.TrimSuffix(base, path.Ext(base))
	dir := filepath.Join(w.root, filepath.FromSlash(path.Dir(relPath)))

	entries := make([]Entry, 0, len(methods))
	written := 0

	if w.oneLine {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		var sb strings.Builder
		for _, m := range methods {
			sb.WriteString(m.NormalizedContent)
			sb.WriteString("\n\n")
		}
		out := filepath.Join(dir, class+".txt")
		if err := os.WriteFile(out, []byte(sb.String()), 0o644); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", out, err)
		}
		written = 1
		for _, m := range methods {
			entries = append(entries, w.entry(relPath, out, m))
		}
	} else {
		classDir := filepath.Join(dir, class)
		if err := os.MkdirAll(classDir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create %s: %w", classDir, err)
		}
		for i, m := range methods {
			out := filepath.Join(classDir, fmt.Sprintf("%s_%d.txt", class, i+1))
			if err := os.WriteFile(out, []byte(m.NormalizedContent), 0o644); err != nil {
				return written, fmt.Errorf("failed to write %s: %w", out, err)
			}
			written++
			entries = append(entries, w.entry(relPath, out, m))
		}
	}

	w.mu.Lock()
	w.files += written
	w.entries = append(w.entries, entries...)
	w.mu.Unlock()

	return written, nil
}

func (w *Writer) entry(source, out string, m extractor.Method) Entry {
	rel, err := filepath.Rel(w.root, out)
	if err != nil {
		rel = out
	}
	return Entry{
		Source:    source,
		Name:      m.Name,
		Kind:      string(m.Decl),
		StartLine: m.StartLine,
		EndLine:   m.EndLine,
		Output:    filepath.ToSlash(rel),
		TLSH:      Digest(m.NormalizedContent),
	}
}

// Digest returns the TLSH digest of text, or "" when text is too short or
// too uniform to hash.
func Digest(text string) string {
	h, err := tlsh.HashBytes([]byte(text))
	if err != nil {
		return ""
	}
	return h.String()
}

// Manifest returns the entries written so far, ordered by source and line
func (w *Writer) Manifest() Manifest {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := make([]Entry, len(w.entries))
	copy(entries, w.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Source != entries[j].Source {
			return entries[i].Source < entries[j].Source
		}
		return entries[i].StartLine < entries[j].StartLine
	})

	return Manifest{
		OneLine: w.oneLine,
		Files:   w.files,
		Methods: len(entries),
		Entries: entries,
	}
}

// Close writes the manifest
func (w *Writer) Close() error {
	data, err := json.MarshalIndent(w.Manifest(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.root, ManifestName), data, 0o644)
}
