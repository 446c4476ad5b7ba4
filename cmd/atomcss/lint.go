package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report style props that cannot be extracted",
	Long: `Extract every source file without writing anything and report the style
props left in the source, plus files that fail to parse.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return runLint()
	},
}

func init() {
	f := lintCmd.Flags()
	f.String("root", "src", "Source directory to scan")
	f.StringSlice("paths", nil, "Glob patterns of files to lint, relative to root")
	f.StringSlice("exclude", nil, "Glob patterns of files to skip")
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Int("max-issues", 0, "Max issues to show (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (atomcss) suffix on issues")
}

// runLint is shared between `atomcss lint` and `atomcss build --lint`.
func runLint() error {
	lintConfig := buildLintConfig()
	quiet := getBoolWithFallback("quiet", "quiet", false)
	lintConfig.Logger = newLogger(getBoolWithFallback("verbose", "verbose", false), quiet)

	lintResult, err := atomcss.Lint(context.Background(), lintConfig)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	outputFormat := getStringWithFallback("output-format", "lint.output-format", "")
	format := atomcss.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		atomcss.WriteOutput(os.Stdout, lintResult, format, lintConfig)
	}

	// Exit code logic: syntax errors always fail, warnings only in strict mode
	total := len(lintResult.Issues) + lintResult.TruncatedCount
	if lintResult.ErrorCount > 0 || (lintConfig.Strict && total > 0) {
		os.Exit(1)
	}

	return nil
}
