package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/re-centris/method-extractor/internal/analyzer/extractor"
	"github.com/re-centris/method-extractor/internal/analyzer/parser"
	"github.com/re-centris/method-extractor/internal/collector"
	"github.com/re-centris/method-extractor/internal/common/cache"
	"github.com/re-centris/method-extractor/internal/common/logger"
	"github.com/re-centris/method-extractor/internal/common/monitor"
)

// FileResult holds the methods extracted from one file
type FileResult struct {
	File    collector.SourceFile
	Methods []extractor.Method
	Cached  bool
}

// Failure records a file that could not be processed
type Failure struct {
	Path string
	Err  error
}

// Summary reports the outcome of a directory run
type Summary struct {
	Files       int
	Parsed      int
	Failed      int
	Methods     int
	CacheHits   uint64
	CacheMisses uint64
	Failures    []Failure
}

// Progress receives per-file progress of a directory run
type Progress interface {
	Start(total int)
	FileDone(path string, err error)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(int)              {}
func (nopProgress) FileDone(string, error) {}
func (nopProgress) Finish()                {}

// Options contains options for the analyzer
type Options struct {
	MaxWorkers int
	Backend    parser.Backend
	Extractor  *extractor.Extractor
	Collector  *collector.Collector
	Cache      *cache.Cache[[]extractor.Method]
	Monitor    *monitor.Monitor
	Progress   Progress
}

// Analyzer runs extraction over files and directories
type Analyzer struct {
	opts Options
}

// New creates a new Analyzer
func New(opts Options) (*Analyzer, error) {
	if opts.Backend == nil || opts.Extractor == nil {
		return nil, errors.New("analyzer needs a backend and an extractor")
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.NumCPU()
	}
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}
	return &Analyzer{opts: opts}, nil
}

// AnalyzeFile reads, parses and extracts a single file. A panic during
// extraction is reported as a contract violation for that file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, file collector.SourceFile) (res *FileResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", parser.ErrContractViolation, file.RelPath, r)
		}
	}()

	content, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	key := a.cacheKey(content)
	if methods, ok := a.opts.Cache.Get(key); ok {
		return &FileResult{File: file, Methods: methods, Cached: true}, nil
	}

	tree, err := a.opts.Backend.Parse(ctx, file.RelPath, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	methods, err := a.opts.Extractor.Extract(tree, content)
	if err != nil {
		return nil, err
	}

	a.opts.Cache.Set(key, methods)
	return &FileResult{File: file, Methods: methods}, nil
}

// process analyzes one file and hands the result to handle. A panic in
// either step fails only this file.
func (a *Analyzer) process(ctx context.Context, file collector.SourceFile, handle func(*FileResult) error) (res *FileResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %s: panic: %v", parser.ErrContractViolation, file.RelPath, r)
		}
	}()

	res, err = a.AnalyzeFile(ctx, file)
	if err == nil && handle != nil {
		err = handle(res)
	}
	return res, err
}

func (a *Analyzer) cacheKey(content []byte) string {
	sum := sha256.Sum256(content)
	opts := a.opts.Extractor.Options()
	return fmt.Sprintf("%s:%s:%d:%t:%s", hex.EncodeToString(sum[:]),
		a.opts.Backend.Name(), opts.MinLines, opts.OneLine, opts.Policy)
}

// AnalyzeDirectory extracts every collected file below dir. handle is called
// for each file that was extracted successfully, possibly concurrently. A
// failing file is logged and counted; it never stops the run.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string, handle func(*FileResult) error) (*Summary, error) {
	if a.opts.Collector == nil {
		return nil, errors.New("analyzer has no collector")
	}
	files, err := a.opts.Collector.Collect(ctx, dir)
	if err != nil {
		return nil, err
	}

	var (
		summary = &Summary{Files: len(files)}
		mu      sync.Mutex
	)
	fail := func(path string, err error) {
		mu.Lock()
		summary.Failed++
		summary.Failures = append(summary.Failures, Failure{Path: path, Err: err})
		mu.Unlock()

		if errors.Is(err, parser.ErrParseFailure) {
			logger.Warn("Skipping file", zap.String("file", path), zap.Error(err))
		} else {
			logger.Error("Failed to process file", zap.String("file", path), zap.Error(err))
		}
	}

	a.opts.Progress.Start(len(files))
	defer a.opts.Progress.Finish()

	// Create error group with context and worker limit
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.MaxWorkers)

	for _, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := a.process(gctx, file, handle)
			a.opts.Progress.FileDone(file.RelPath, err)
			if err != nil {
				fail(file.RelPath, err)
				return nil
			}

			mu.Lock()
			summary.Parsed++
			summary.Methods += len(res.Methods)
			mu.Unlock()
			if a.opts.Monitor != nil {
				a.opts.Monitor.FileDone(len(res.Methods))
			}
			logger.Debug("Extracted file",
				zap.String("file", file.RelPath),
				zap.Int("methods", len(res.Methods)),
				zap.Bool("cached", res.Cached))
			return nil
		})
	}

	g.Wait()
	summary.CacheHits, summary.CacheMisses = a.opts.Cache.Stats()

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
