package collector

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"github.com/re-centris/method-extractor/internal/common/logger"
)

// skipDirs are never descended into
var skipDirs = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
}

// SourceFile is a file selected for extraction
type SourceFile struct {
	Path    string // absolute or root-joined path
	RelPath string // slash-separated path relative to the root
	Size    int64
}

// Options contains options for the collector
type Options struct {
	Extensions []string
	Exclude    []string
}

// Collector finds source files below a root directory
type Collector struct {
	extensions map[string]bool
	exclude    []glob.Glob
}

// New creates a collector. Exclude patterns are matched against
// slash-separated paths relative to the root.
func New(opts Options) (*Collector, error) {
	c := &Collector{extensions: make(map[string]bool)}
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.extensions[ext] = true
	}
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		c.exclude = append(c.exclude, g)
	}
	return c, nil
}

// Collect returns the source files below root sorted by relative path
func (c *Collector) Collect(ctx context.Context, root string) ([]SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && (skipDirs[d.Name()] || c.excluded(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !c.isTargetFile(path) || c.excluded(rel) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, SourceFile{Path: path, RelPath: rel, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func (c *Collector) isTargetFile(path string) bool {
	return c.extensions[strings.ToLower(filepath.Ext(path))]
}

func (c *Collector) excluded(rel string) bool {
	for _, g := range c.exclude {
		if g.Match(rel) || g.Match(strings.TrimSuffix(rel, "/")) {
			return true
		}
	}
	return false
}
