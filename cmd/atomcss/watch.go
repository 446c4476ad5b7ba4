package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yacobolo/atomcss"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever a source file changes",
	Long: `Build once, then watch the source root and rebuild on every change.
Unchanged files are served from the cache and keep their class names.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	addBuildFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", atomcss.DefaultDebounce, "Wait for more changes before rebuilding")
}

func runWatch(_ *cobra.Command, _ []string) error {
	config := buildConfig()
	quiet := getBoolWithFallback("quiet", "quiet", false)
	config.Logger = newLogger(getBoolWithFallback("verbose", "verbose", false), quiet)
	defer func() { _ = config.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := atomcss.NewReporter(os.Stdout, atomcss.LintConfig{
		UseColors: getBoolWithFallback("color", "color", false),
	})
	opts := atomcss.WatchOptions{
		Debounce: getDurationWithFallback("debounce", "watch.debounce", atomcss.DefaultDebounce),
		OnBuild: func(result *atomcss.BuildResult, err error) {
			if quiet {
				return
			}
			if result != nil {
				reporter.PrintBuildResult(result)
			} else if err != nil {
				fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
			}
		},
	}

	if err := atomcss.Watch(ctx, config, opts); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
