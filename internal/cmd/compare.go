package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/re-centris/method-extractor/internal/analyzer/parser"
	"github.com/re-centris/method-extractor/internal/collector"
	"github.com/re-centris/method-extractor/internal/common/logger"
	"github.com/re-centris/method-extractor/internal/compare"
)

var compareCmd = &cobra.Command{
	Use:   "compare [directory]",
	Short: "Compare the output of both parser backends",
	Long: `Extract every file in a directory with both parser backends and
print a unified diff for each file whose methods differ.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := parser.DefaultRegistry(cfg.ParserConfig())
	left, _ := registry.Get(parser.KindTreeSitter.String())
	right, _ := registry.Get(parser.KindNative.String())

	col, err := collector.New(collector.Options{
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
	})
	if err != nil {
		return err
	}
	files, err := col.Collect(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	logger.Info("Comparing backends",
		zap.String("directory", args[0]),
		zap.String("left", left.Name()),
		zap.String("right", right.Name()),
		zap.Int("files", len(files)))

	report, err := compare.New(left, right, cfg.NormalizerOptions()).Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range report.Mismatches {
		if m.Err != nil {
			fmt.Fprintf(out, "%s: %v\n", m.Path, m.Err)
			continue
		}
		fmt.Fprint(out, m.Diff)
	}
	fmt.Fprintf(out, "%d files: %d agree, %d differ, %d skipped\n",
		report.Files, report.Agreed, len(report.Mismatches), report.Skipped)

	if len(report.Mismatches) > 0 {
		return fmt.Errorf("backends disagree on %d files", len(report.Mismatches))
	}
	return nil
}
