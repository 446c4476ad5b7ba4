package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Extract styles and write rewritten sources and stylesheets",
	Long: `Scan the source root, extract every style prop into atomic CSS and
write the rewritten sources plus the generated stylesheets to the output directory.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().Bool("lint", false, "Run linter after build")
}

// addBuildFlags registers the flags shared by build and watch.
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("root", "src", "Source directory to scan")
	f.StringSlice("include", nil, "Glob patterns of source files, relative to root")
	f.StringSlice("exclude", nil, "Glob patterns of source files to skip")
	f.String("out-dir", "dist", "Output directory for rewritten sources")
	f.String("css-out-dir", "", "Output directory for stylesheets (default: <out-dir>/css)")
	f.String("state-file", "", "File keeping the class numbering across runs")
	f.Int("workers", 0, "Parallel extractions (0 = GOMAXPROCS)")
	f.IntSlice("breakpoints", nil, "Min-width in pixels of each responsive level")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	config := buildConfig()
	quiet := getBoolWithFallback("quiet", "quiet", false)
	config.Logger = newLogger(getBoolWithFallback("verbose", "verbose", false), quiet)
	defer func() { _ = config.Logger.Sync() }()

	result, err := atomcss.Build(context.Background(), config)
	if result == nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if !quiet {
		reporter := atomcss.NewReporter(os.Stdout, atomcss.LintConfig{
			UseColors: getBoolWithFallback("color", "color", false),
		})
		reporter.PrintBuildResult(result)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	// Run lint after build if --lint flag set
	lint, _ := cmd.Flags().GetBool("lint")
	if lint {
		return runLint()
	}

	return nil
}
