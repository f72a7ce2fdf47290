package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/re-centris/method-extractor/internal/analyzer"
	"github.com/re-centris/method-extractor/internal/analyzer/extractor"
	"github.com/re-centris/method-extractor/internal/analyzer/parser"
	"github.com/re-centris/method-extractor/internal/clone"
	"github.com/re-centris/method-extractor/internal/collector"
	"github.com/re-centris/method-extractor/internal/common/cache"
	"github.com/re-centris/method-extractor/internal/common/logger"
	"github.com/re-centris/method-extractor/internal/common/monitor"
	"github.com/re-centris/method-extractor/internal/output"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract methods from a directory or a GitHub repository",
	Long: `Extract every method and constructor declaration from the Java files
of a local directory or a public GitHub repository. Each declaration is
written to the output directory with its comments removed.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	f := extractCmd.Flags()
	f.String("local", "", "Local directory to extract from")
	f.String("github", "", "Public GitHub repository URL to clone and extract from")
	f.StringP("output", "o", "./output", "Output directory for extracted methods")
	f.StringP("backend", "b", "treesitter", "Parser backend (treesitter|native)")
	f.Int("min-lines", 0, "Drop methods with fewer normalized lines")
	f.Bool("oneline", false, "Collapse each method onto a single line")
	f.String("comment-policy", "blank", "How comments are removed (blank|space|delete)")
	f.IntP("workers", "w", 0, "Number of parallel workers (0 uses all CPUs)")
	f.Bool("strict", false, "Reject files the parser reports syntax errors for")
	f.Bool("keep-clone", false, "Keep the cloned repository after extraction")
	f.BoolP("quiet", "q", false, "Do not draw a progress bar")

	extractCmd.MarkFlagsMutuallyExclusive("local", "github")
	extractCmd.MarkFlagsOneRequired("local", "github")

	viper.BindPFlag("output", f.Lookup("output"))
	viper.BindPFlag("backend", f.Lookup("backend"))
	viper.BindPFlag("min_lines", f.Lookup("min-lines"))
	viper.BindPFlag("one_line", f.Lookup("oneline"))
	viper.BindPFlag("comment_policy", f.Lookup("comment-policy"))
	viper.BindPFlag("workers", f.Lookup("workers"))
	viper.BindPFlag("strict", f.Lookup("strict"))
	viper.BindPFlag("clone.keep", f.Lookup("keep-clone"))
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	root, _ := cmd.Flags().GetString("local")
	if url, _ := cmd.Flags().GetString("github"); url != "" {
		cloner := clone.New(clone.Options{
			Dir:   cfg.Clone.Dir,
			Depth: cfg.Clone.Depth,
			Keep:  cfg.Clone.Keep,
		})
		dir, err := cloner.Clone(ctx, url)
		if err != nil {
			return err
		}
		defer func() {
			if err := cloner.Cleanup(dir); err != nil {
				logger.Warn("Failed to remove clone", zap.String("path", dir), zap.Error(err))
			}
		}()
		root = dir
	}

	metrics := monitor.NewMetrics()
	pcfg := cfg.ParserConfig()
	pcfg.Recorder = metrics

	backend, err := parser.New(cfg.Backend, pcfg)
	if err != nil {
		return err
	}
	ext := extractor.New(backend.Kind(), cfg.NormalizerOptions(), metrics)

	col, err := collector.New(collector.Options{
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
	})
	if err != nil {
		return err
	}

	c, err := cache.New[[]extractor.Method](cfg.CacheSize)
	if err != nil {
		return err
	}

	w, err := output.New(cfg.Output, cfg.OneLine)
	if err != nil {
		return err
	}

	mon := monitor.New(30 * time.Second)
	mon.Start()
	defer mon.Stop()

	var progress analyzer.Progress
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		progress = newProgressReporter(cmd.ErrOrStderr())
	}

	a, err := analyzer.New(analyzer.Options{
		MaxWorkers: cfg.MaxWorkers(),
		Backend:    backend,
		Extractor:  ext,
		Collector:  col,
		Cache:      c,
		Monitor:    mon,
		Progress:   progress,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting method extraction",
		zap.String("directory", root),
		zap.String("backend", backend.Name()),
		zap.Int("workers", cfg.MaxWorkers()))

	summary, err := a.AnalyzeDirectory(ctx, root, func(res *analyzer.FileResult) error {
		_, err := w.Write(res.File.RelPath, res.Methods)
		return err
	})
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	logger.Info("Method extraction completed",
		zap.Int("files", summary.Files),
		zap.Int("parsed", summary.Parsed),
		zap.Int("failed", summary.Failed),
		zap.Int("methods", summary.Methods),
		zap.Uint64("cache_hits", summary.CacheHits))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d files: %d extracted, %d failed\n", summary.Files, summary.Parsed, summary.Failed)
	fmt.Fprintf(out, "Wrote %d methods to %s\n\n", summary.Methods, w.Root())
	fmt.Fprint(out, metrics.String())
	return nil
}
